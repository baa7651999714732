package chain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blockNumberGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_block_number",
		Help: "Number of the last finalized block",
	})
	consumedWeightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_consumed_weight",
		Help: "Weight consumed by the last finalized block",
	})
	feeMultiplierGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_fee_multiplier",
		Help: "Current energy fee multiplier",
	})
	burnedEnergyGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_burned_energy",
		Help: "VNRG burned in the last finalized block",
	})
	vtrsIssuanceGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_vtrs_issuance",
		Help: "Total VTRS supply",
	})
	vnrgIssuanceGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_vnrg_issuance",
		Help: "Total VNRG supply",
	})
	appliedExtrinsics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chain_applied_extrinsics_total",
		Help: "Count of successfully applied extrinsics",
	})
	failedExtrinsics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chain_failed_extrinsics_total",
		Help: "Count of extrinsics that failed after fee withdrawal",
	})
)
