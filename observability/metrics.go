package observability

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brensch/epidemic/controller"
	"github.com/brensch/epidemic/protocol"
	"github.com/brensch/epidemic/rules"
)

// MatchCollector turns judge frames into Prometheus metrics.
type MatchCollector struct {
	gatherer prometheus.Gatherer

	Matches    prometheus.Counter
	Rounds     prometheus.Counter
	Actions    *prometheus.CounterVec
	BotErrors  *prometheus.CounterVec
	Population *prometheus.GaugeVec
	Mutations  *prometheus.CounterVec
}

// NewMatchCollector registers match metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewMatchCollector(reg prometheus.Registerer) (*MatchCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	matches, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epidemic_matches_total",
		Help: "Number of finished matches.",
	}), "epidemic_matches_total")
	if err != nil {
		return nil, err
	}
	rounds, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epidemic_rounds_total",
		Help: "Number of rounds played across all matches.",
	}), "epidemic_rounds_total")
	if err != nil {
		return nil, err
	}
	actions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epidemic_actions_total",
		Help: "Action codes played by bots, labeled by action name.",
	}, []string{"action"}), "epidemic_actions_total")
	if err != nil {
		return nil, err
	}
	botErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epidemic_bot_errors_total",
		Help: "Turns forfeited by a bot, labeled by player name.",
	}, []string{"player"}), "epidemic_bot_errors_total")
	if err != nil {
		return nil, err
	}
	mutations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epidemic_mutations_total",
		Help: "Virus mutations applied, labeled by kind.",
	}, []string{"kind"}), "epidemic_mutations_total")
	if err != nil {
		return nil, err
	}
	population, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "epidemic_region_population",
		Help: "Current population of each region, labeled by region id and compartment.",
	}, []string{"region", "compartment"}), "epidemic_region_population")
	if err != nil {
		return nil, err
	}

	return &MatchCollector{
		gatherer:   gatherer,
		Matches:    matches,
		Rounds:     rounds,
		Actions:    actions,
		BotErrors:  botErrors,
		Population: population,
		Mutations:  mutations,
	}, nil
}

// Observe records one frame. It is a controller observer.
func (c *MatchCollector) Observe(f controller.Frame) {
	if c == nil {
		return
	}
	if f.Final {
		c.Matches.Inc()
		return
	}

	c.Rounds.Inc()
	if f.Mutation != "" {
		c.Mutations.WithLabelValues(f.Mutation).Inc()
	}

	names := make(map[int]string, len(f.States))
	for _, s := range f.States {
		names[s.ID] = s.Name
		region := strconv.Itoa(s.ID)
		c.Population.WithLabelValues(region, "healthy").Set(float64(s.Healthy))
		c.Population.WithLabelValues(region, "infected").Set(float64(s.Infected))
		c.Population.WithLabelValues(region, "dead").Set(float64(s.Dead))
	}
	for _, response := range f.Responses {
		for i := 0; i < len(response) && i < protocol.ActionsPerTurn; i++ {
			c.Actions.WithLabelValues(actionLabel(response[i])).Inc()
		}
	}
	for id := range f.Errors {
		c.BotErrors.WithLabelValues(names[id]).Inc()
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *MatchCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// actionLabel keeps label cardinality bounded: codes outside the menu are
// played as Wait and counted as "unknown".
func actionLabel(code byte) string {
	a, err := rules.ParseAction(code)
	if err != nil {
		return "unknown"
	}
	return a.String()
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
