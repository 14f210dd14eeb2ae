package collector

import (
	"fmt"
	"testing"

	"ReportDog/internal/model"
)

func peerFixture(n int) ([]ValuationStat, map[string]model.CompanyProfile) {
	var stats []ValuationStat
	profiles := make(map[string]model.CompanyProfile)
	for i := 1; i <= n; i++ {
		code := fmt.Sprintf("%04d", 1000+i)
		stats = append(stats, ValuationStat{Code: code, PE: float64(i * 2)})
		profiles[code] = model.CompanyProfile{Code: code, Name: "公司" + code, Industry: "24"}
	}
	stats = append(stats, ValuationStat{Code: "9999", PE: 15})
	profiles["9999"] = model.CompanyProfile{Code: "9999", Name: "其他", Industry: "01"}
	return stats, profiles
}

func codes(rows []model.PeerValuation) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Code
	}
	return out
}

func TestComparePeers_Window(t *testing.T) {
	stats, profiles := peerFixture(20)
	rows := ComparePeers("1010", "24", stats, profiles)
	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d: %v", len(rows), codes(rows))
	}
	if rows[4].Code != "1010" {
		t.Errorf("expected target in the middle, got %v", codes(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].PE < rows[i-1].PE {
			t.Fatalf("expected PE ascending, got %v", rows)
		}
	}
	if rows[0].Name != "公司1006" || rows[0].Industry != "24" {
		t.Errorf("expected name joined from profiles, got %+v", rows[0])
	}
}

func TestComparePeers_TargetAtEdge(t *testing.T) {
	stats, profiles := peerFixture(20)
	rows := ComparePeers("1001", "24", stats, profiles)
	if len(rows) != 5 || rows[0].Code != "1001" {
		t.Errorf("expected target first with 4 neighbours, got %v", codes(rows))
	}
}

func TestComparePeers_TargetOutlierKept(t *testing.T) {
	stats, profiles := peerFixture(5)
	stats = append(stats, ValuationStat{Code: "2000", PE: 0})
	profiles["2000"] = model.CompanyProfile{Code: "2000", Industry: "24"}
	stats = append(stats, ValuationStat{Code: "2001", PE: 250})
	profiles["2001"] = model.CompanyProfile{Code: "2001", Industry: "24"}

	rows := ComparePeers("2000", "24", stats, profiles)
	got := codes(rows)
	if len(rows) != 5 || got[0] != "2000" {
		t.Errorf("expected loss-making target kept first, got %v", got)
	}
	for _, c := range got {
		if c == "2001" {
			t.Error("PE >= 200 peer must be filtered")
		}
	}
}

func TestComparePeers_Unknown(t *testing.T) {
	stats, profiles := peerFixture(5)
	if rows := ComparePeers("5555", "24", stats, profiles); rows != nil {
		t.Errorf("expected nil for unknown target, got %v", codes(rows))
	}
	if rows := ComparePeers("1001", "99", stats, profiles); rows != nil {
		t.Errorf("expected nil for empty industry, got %v", codes(rows))
	}
}
