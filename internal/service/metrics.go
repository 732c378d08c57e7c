package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// contractsGenerated — счётчик успешно сгенерированных договоров.
var contractsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "contracts_generated_total",
	Help: "Successfully generated contract documents.",
})
