package csp

import "sync"

// Config — источники политики из конфигурации процесса.
type Config struct {
	Override Policy // CSP_POLICY: полная замена
	Extend   Policy // EXTEND_CSP_POLICY: дописывается к политике по умолчанию
}

// Builder лениво собирает строку политики ровно один раз.
// После первого вызова PolicyString конфигурация больше не читается.
type Builder struct {
	cfg   *Config
	once  sync.Once
	value string
}

// NewBuilder — cfg читается при первом вызове PolicyString, nil означает политику по умолчанию.
func NewBuilder(cfg *Config) *Builder {
	return &Builder{cfg: cfg}
}

// PolicyString возвращает значение заголовка Content-Security-Policy.
func (b *Builder) PolicyString() string {
	b.once.Do(func() {
		var override, extend Policy
		if b.cfg != nil {
			override, extend = b.cfg.Override, b.cfg.Extend
		}
		b.value = Resolve(override, extend).String()
	})
	return b.value
}

var (
	processMu      sync.Mutex
	processBuilder *Builder
)

// Init устанавливает Builder процесса. Выигрывает первый вызов,
// последующие возвращают уже установленный экземпляр.
func Init(cfg *Config) *Builder {
	processMu.Lock()
	defer processMu.Unlock()
	if processBuilder == nil {
		processBuilder = NewBuilder(cfg)
	}
	return processBuilder
}

// Default — Builder процесса; без Init используется политика по умолчанию.
func Default() *Builder {
	return Init(nil)
}

// PolicyString — строка политики процесса (кэшируется навсегда).
func PolicyString() string {
	return Default().PolicyString()
}
