package service

import (
	"pickslate/internal/domain"
)

// Settlement es el resultado financiero de liquidar un pick.
type Settlement struct {
	UnitsWon  float64 `json:"units_won"`
	UnitsLost float64 `json:"units_lost"`
	NetUnits  float64 `json:"net_units"`
}

// SettleUnits aplica la regla canónica de payout con cuotas americanas.
// pending y push netean cero siempre; stake ausente o cuota inválida se trata
// como "no graduable financieramente", no como error.
func SettleUnits(result domain.PickResult, odds int, stake float64) Settlement {
	if result == domain.ResultPending || result == domain.ResultPush {
		return Settlement{}
	}
	if stake <= 0 || odds == 0 {
		return Settlement{}
	}

	switch result {
	case domain.ResultWon:
		var won float64
		if odds < 0 {
			// Favorito: se arriesgó |odds|/100 por unidad para ganar el stake.
			won = stake
		} else {
			won = float64(odds) / 100 * stake
		}
		return Settlement{UnitsWon: won, NetUnits: won}
	case domain.ResultLost:
		var lost float64
		if odds < 0 {
			lost = float64(-odds) / 100 * stake
		} else {
			lost = stake
		}
		return Settlement{UnitsLost: lost, NetUnits: -lost}
	}
	return Settlement{}
}
