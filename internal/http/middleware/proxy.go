package middleware

//proxy.go
import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"scoreboard/internal/core"
)

// TrustedProxy проверяет, что запросы поступают от доверенных прокси, и устанавливает реальный IP и схему (OWASP A05: Security Misconfiguration)
// Элементы trustedIPs — одиночные IP или CIDR.
func TrustedProxy(trustedIPs []string) func(http.Handler) http.Handler {
	trusted := make([]*net.IPNet, 0, len(trustedIPs))
	for _, ipStr := range trustedIPs {
		_, ipNet, err := net.ParseCIDR(ipStr)
		if err != nil {
			// Для одиночных IP
			if ip := net.ParseIP(ipStr); ip != nil {
				bits := 8 * len(ip)
				ipNet = &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
			}
		}
		if ipNet != nil {
			trusted = append(trusted, ipNet)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекает IP клиента из RemoteAddr
			clientIP, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil || clientIP == "" {
				core.Fail(w, r, core.BadRequest("Неверный адрес клиента", err))
				return
			}

			ip := net.ParseIP(clientIP)
			if ip == nil {
				core.Fail(w, r, core.BadRequest("Неверный IP", fmt.Errorf("remote addr %q", r.RemoteAddr)))
				return
			}

			isTrusted := false
			for _, ipNet := range trusted {
				if ipNet.Contains(ip) {
					isTrusted = true
					break
				}
			}
			if !isTrusted {
				core.Fail(w, r, core.Forbidden("Недоверенный прокси"))
				return
			}

			// Устанавливает реальный IP из заголовка X-Forwarded-For (первый валидный)
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				for _, candidate := range strings.Split(forwarded, ",") {
					candidate = strings.TrimSpace(candidate)
					if net.ParseIP(candidate) != nil {
						r.RemoteAddr = net.JoinHostPort(candidate, "0")
						break
					}
				}
			}

			// Устанавливает схему из X-Forwarded-Proto
			if proto := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); proto == "https" {
				r.URL.Scheme = "https"
			} else {
				r.URL.Scheme = "http"
			}

			next.ServeHTTP(w, r)
		})
	}
}
