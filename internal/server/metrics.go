package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sectionFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_section_fetches_total",
		Help: "Section payloads served, by chapter.",
	}, []string{"chapter"})

	chatSends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_chat_sends_total",
		Help: "Chat requests proxied to the model backend.",
	})

	chatErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_chat_errors_total",
		Help: "Chat requests that failed before or during streaming.",
	})
)
