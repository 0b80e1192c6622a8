package csp

// policy.go — Content-Security-Policy: директивы, политика по умолчанию, сериализация
import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Directive — одна директива CSP (например, script-src) и её источники.
type Directive struct {
	Name    string
	Sources []string
}

// Policy — упорядоченный набор директив. Порядок сохраняется при сериализации.
type Policy []Directive

// DefaultPolicy возвращает свежую копию встроенной политики (OWASP A05).
func DefaultPolicy() Policy {
	return Policy{
		{Name: "default-src", Sources: []string{"'self'"}},
		// 'unsafe-eval' нужен Charts.js
		{Name: "script-src", Sources: []string{"'self'", "'unsafe-eval'"}},
		{Name: "img-src", Sources: []string{"'self'", "data:"}},
		{Name: "object-src", Sources: []string{"'none'"}},
		{Name: "font-src", Sources: []string{"'self'", "fonts.gstatic.com"}},
		// 'unsafe-inline' нужен Charts.js
		{Name: "style-src", Sources: []string{"'self'", "fonts.googleapis.com", "'unsafe-inline'"}},
	}
}

// Clone — глубокая копия (источники тоже копируются).
func (p Policy) Clone() Policy {
	if p == nil {
		return nil
	}
	out := make(Policy, len(p))
	for i, d := range p {
		out[i] = Directive{Name: d.Name, Sources: append([]string(nil), d.Sources...)}
	}
	return out
}

func (p Policy) index(name string) int {
	for i, d := range p {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// String собирает значение заголовка: "directive src1 src2; directive2 ...".
// Никакой валидации: что пришло из конфигурации, то и попадёт в заголовок.
func (p Policy) String() string {
	parts := make([]string, 0, len(p))
	for _, d := range p {
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

// Extend дописывает источники ext в конец соответствующих директив base.
// Отсутствующие директивы добавляются в конец политики. base не изменяется.
func Extend(base, ext Policy) Policy {
	out := base.Clone()
	for _, d := range ext {
		if i := out.index(d.Name); i >= 0 {
			out[i].Sources = append(out[i].Sources, d.Sources...)
			continue
		}
		out = append(out, Directive{Name: d.Name, Sources: append([]string(nil), d.Sources...)})
	}
	return out
}

// Resolve выбирает итоговую политику:
// полная замена (override) > расширение политики по умолчанию (extend) > политика по умолчанию.
func Resolve(override, extend Policy) Policy {
	switch {
	case len(override) > 0:
		return override
	case len(extend) > 0:
		return Extend(DefaultPolicy(), extend)
	default:
		return DefaultPolicy()
	}
}

// ParsePolicy разбирает политику из YAML/JSON-отображения
// ({"script-src": ["'self'", "cdn.example.com"]}), сохраняя порядок ключей.
// Пустая строка — политика не задана (nil, nil).
func ParsePolicy(raw string) (Policy, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("csp: разбор политики: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("csp: политика должна быть отображением директив, строка %d", root.Line)
	}

	p := make(Policy, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]

		var sources []string
		switch val.Kind {
		case yaml.SequenceNode:
			if err := val.Decode(&sources); err != nil {
				return nil, fmt.Errorf("csp: директива %q: %w", key.Value, err)
			}
		case yaml.ScalarNode:
			// одиночный источник строкой; null — директива без источников
			if val.Tag != "!!null" {
				sources = []string{val.Value}
			}
		default:
			return nil, fmt.Errorf("csp: директива %q: ожидается список источников, строка %d", key.Value, val.Line)
		}

		p = append(p, Directive{Name: key.Value, Sources: sources})
	}
	return p, nil
}
