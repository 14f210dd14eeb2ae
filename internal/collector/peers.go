package collector

import (
	"sort"

	"ReportDog/internal/model"
)

// Peer window: neighbours kept on each side of the target after sorting by PE.
const (
	peerWindow   = 4
	peerFallback = 9
	peerMaxPE    = 200
)

// ValuationStat is one row of the exchange-wide valuation table.
type ValuationStat struct {
	Code          string
	Name          string
	PE            float64
	DividendYield float64
	PB            float64
}

// ComparePeers builds the PE-sorted peer table around target within industry.
// Peers with PE outside (0, 200) are dropped but the target is always kept.
// It returns nil when the industry has no listed peers or the target is unknown.
func ComparePeers(target, industry string, stats []ValuationStat, profiles map[string]model.CompanyProfile) []model.PeerValuation {
	var merged []model.PeerValuation
	var targetRow *model.PeerValuation
	for _, s := range stats {
		p, ok := profiles[s.Code]
		if !ok {
			continue
		}
		row := model.PeerValuation{
			Code:          s.Code,
			Name:          p.Name,
			Industry:      p.Industry,
			PE:            s.PE,
			DividendYield: s.DividendYield,
			PB:            s.PB,
		}
		if s.Code == target {
			r := row
			targetRow = &r
		}
		if p.Industry == industry {
			merged = append(merged, row)
		}
	}
	if len(merged) == 0 || targetRow == nil {
		return nil
	}

	clean := make([]model.PeerValuation, 0, len(merged)+1)
	hasTarget := false
	for _, row := range merged {
		if row.PE > 0 && row.PE < peerMaxPE {
			clean = append(clean, row)
			if row.Code == target {
				hasTarget = true
			}
		}
	}
	if !hasTarget {
		clean = append(clean, *targetRow)
	}
	sort.SliceStable(clean, func(i, j int) bool { return clean[i].PE < clean[j].PE })

	idx := -1
	for i, row := range clean {
		if row.Code == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return headPeers(clean, peerFallback)
	}
	start := max(0, idx-peerWindow)
	end := min(len(clean), idx+peerWindow+1)
	return clean[start:end]
}

func headPeers(rows []model.PeerValuation, n int) []model.PeerValuation {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
