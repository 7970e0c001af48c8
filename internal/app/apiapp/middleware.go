package apiapp

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
	ratesvc "github.com/ArnavSingha/ApniSec/internal/services/rate"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/handlers"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

const msgTooManyRequests = "Too many requests. Please try again later."

func ApplyMiddlewares(r chiRouter, log *zap.Logger, requestTimeout time.Duration, proxies TrustedProxies) {
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	r.Use(chimiddleware.RequestID)
	r.Use(TrustedRealIP(proxies))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(requestLogger(log))
}

// RequireSession admits requests carrying a valid session cookie and puts the
// caller's identity on the context.
func RequireSession(tokens *authsvc.TokenManager, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := handlers.SessionToken(r)
			if raw == "" {
				response.Error(w, r, log, apperr.Unauthenticated(authsvc.MsgTokenMissing))
				return
			}

			claims, ok := tokens.Verify(raw)
			if !ok {
				if log != nil {
					log.Debug("session cookie rejected", zap.String("path", r.URL.Path))
				}
				response.Error(w, r, log, apperr.Unauthenticated(authsvc.MsgTokenInvalid))
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID:  claims.Subject,
				TokenID: claims.TokenID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit counts the request against scope for the client address. The
// X-RateLimit headers are set before the handler runs so they also appear on
// error responses.
func RateLimit(limiter *ratesvc.Limiter, scope string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.Check(r.Context(), clientIP(r), scope, nil)
			header := w.Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetUnix(), 10))

			if !result.Allowed {
				if log != nil {
					log.Info("rate limit exceeded", zap.String("scope", scope), zap.String("path", r.URL.Path))
				}
				response.Error(w, r, log, apperr.RateLimited(msgTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TrustedProxies are the peers allowed to name the client through
// forwarding headers.
type TrustedProxies []*net.IPNet

// ParseTrustedProxies accepts CIDRs and bare IPs.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		proxies = append(proxies, network)
	}
	return proxies, nil
}

// Trusts reports whether the socket peer in remoteAddr is a trusted proxy.
func (p TrustedProxies) Trusts(remoteAddr string) bool {
	if len(p) == 0 {
		return false
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, network := range p {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// TrustedRealIP rewrites RemoteAddr from forwarding headers only when the
// request arrived from a trusted proxy. Everyone else is keyed by the socket.
func TrustedRealIP(proxies TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		realIP := chimiddleware.RealIP(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if proxies.Trusts(r.RemoteAddr) {
				realIP.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of RemoteAddr, already rewritten by
// TrustedRealIP when a trusted proxy sent the request.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
