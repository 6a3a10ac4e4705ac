package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snake_rooms_active",
		Help: "Количество комнат в реестре",
	})

	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snake_ticks_total",
		Help: "Применённые шаги симуляции по всем комнатам",
	})

	Rounds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snake_rounds_total",
		Help: "Раунды, завершённые столкновением и полным сбросом",
	})

	FoodEaten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snake_food_eaten_total",
		Help: "Съеденная еда",
	})

	BroadcastDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snake_broadcast_dropped_total",
		Help: "Снапшоты, отброшенные из-за переполненного буфера клиента",
	})
)
