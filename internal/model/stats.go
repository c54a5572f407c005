package model

// Stats holds rollup totals over a project collection
type Stats struct {
	Count       int     `json:"count"`
	TotalMoney  float64 `json:"totalMoney"`
	TotalFabric float64 `json:"totalFabric"`
	TotalTime   float64 `json:"totalTime"`
}

// Add returns the field-wise sum of s and o
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Count:       s.Count + o.Count,
		TotalMoney:  s.TotalMoney + o.TotalMoney,
		TotalFabric: s.TotalFabric + o.TotalFabric,
		TotalTime:   s.TotalTime + o.TotalTime,
	}
}

// Aggregate sums money, fabric and time over all projects
func Aggregate(projects []Project) Stats {
	stats := Stats{Count: len(projects)}
	for _, p := range projects {
		stats.TotalMoney += p.MoneySpent
		stats.TotalFabric += p.FabricUsed
		stats.TotalTime += p.TimeSpent
	}
	return stats
}
