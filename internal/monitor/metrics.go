package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	resultPlaced   = "placed"
	resultRejected = "rejected"
)

type Metrics struct {
	GamesCreated  prometheus.Counter
	Placements    *prometheus.CounterVec
	GamesFinished *prometheus.CounterVec
	Resets        prometheus.Counter
}

// NewMetrics - creates the game counters and registers them on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Total number of games created",
		}),
		Placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Placements by result, rejected ones hit a taken cell or a finished game",
		}, []string{"result"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome",
		}, []string{"outcome"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of game resets",
		}),
	}

	reg.MustRegister(
		m.GamesCreated,
		m.Placements,
		m.GamesFinished,
		m.Resets,
	)

	return m
}

func (m *Metrics) IncGamesCreated() {
	m.GamesCreated.Inc()
}

// ObservePlacement - counts a placement and, when it ended the game, the outcome.
func (m *Metrics) ObservePlacement(placed bool, game *entity.Game) {
	if !placed {
		m.Placements.WithLabelValues(resultRejected).Inc()
		return
	}

	m.Placements.WithLabelValues(resultPlaced).Inc()

	if game.IsFinished() {
		m.GamesFinished.WithLabelValues(game.Status.String()).Inc()
	}
}

func (m *Metrics) IncResets() {
	m.Resets.Inc()
}
