package handler

import (
	"net/http"
	"strings"
)

func (h *Handler) baseURLForRequest(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return schemeForRequest(r) + "://" + hostForRequest(r)
}

// hostForRequest prefers RFC 7239 Forwarded, then X-Forwarded-Host,
// then X-Original-Host, then the Host header.
func hostForRequest(r *http.Request) string {
	if host := forwardedValue(r.Header.Get("Forwarded"), "host"); host != "" {
		return safeHost(host)
	}
	if host := firstToken(r.Header.Get("X-Forwarded-Host")); host != "" {
		return safeHost(host)
	}
	if host := strings.TrimSpace(r.Header.Get("X-Original-Host")); host != "" {
		return safeHost(host)
	}
	return safeHost(r.Host)
}

func schemeForRequest(r *http.Request) string {
	if proto := forwardedValue(r.Header.Get("Forwarded"), "proto"); proto != "" {
		return sanitizeScheme(proto)
	}
	if proto := firstToken(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return sanitizeScheme(proto)
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func sanitizeScheme(scheme string) string {
	if strings.EqualFold(strings.TrimSpace(scheme), "https") {
		return "https"
	}
	return "http"
}

func safeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.ContainsAny(host, "/\\\r\n\t") {
		return "localhost"
	}
	return host
}

func firstToken(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		if tok := strings.TrimSpace(part); tok != "" {
			return tok
		}
	}
	return ""
}

// forwardedValue reads key from the first element of a Forwarded header.
func forwardedValue(raw, key string) string {
	first := firstToken(raw)
	if first == "" {
		return ""
	}

	for _, pair := range strings.Split(first, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || !strings.EqualFold(name, key) {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), "\"")
	}
	return ""
}
