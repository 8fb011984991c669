package shotchart

import (
	"fmt"
	"io"

	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotzones"

	svg "github.com/ajstarks/svgo"
)

const (
	width      = 720
	barHeight  = 36
	barGap     = 14
	top        = 70
	labelWidth = 210
	barWidth   = 330
)

// Render writes the zone chart of a profile as SVG.
// Each bar width is the zone share of the attempts, colored by the zone eFG%.
func Render(w io.Writer, p *profile.Profile) {
	zones := shotzones.Zones(p.ShotChart)
	height := top + len(zones)*(barHeight+barGap) + 40

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white;stroke:black;stroke-width:2")
	canvas.Gstyle("font-family:Calibri,sans-serif;font-size:16px")

	canvas.Text(20, 34, p.PlayerName, "font-size:24px;fill:black")
	canvas.Text(width-20, 34, fmt.Sprintf("%s %s", p.Season, p.SeasonType), "text-anchor:end;fill:gray")

	total := shotzones.TotalAttempts(p.ShotChart)
	for i, zone := range zones {
		stats := p.ShotChart[zone]
		y := top + i*(barHeight+barGap)

		share := 0.0
		if total > 0 {
			share = float64(stats.Attempts) / float64(total)
		}

		canvas.Text(20, y+barHeight/2+6, zone, "fill:black")
		canvas.Rect(labelWidth, y, barWidth, barHeight, "fill:#f2f2f2")
		if filled := int(share * barWidth); filled > 0 {
			canvas.Rect(labelWidth, y, filled, barHeight, "fill:"+efgColor(stats.EFGPct))
		}
		canvas.Text(labelWidth+barWidth+12, y+barHeight/2+6,
			fmt.Sprintf("%d FGA  %.1f%% FG  %.1f%% eFG", stats.Attempts, stats.FGPct*100, stats.EFGPct*100),
			"fill:gray;font-size:14px")
	}

	canvas.Text(20, height-14, fmt.Sprintf("%d attempts", total), "fill:gray")
	canvas.Gend()
	canvas.End()
}

// Cold to hot, split around a league average eFG%.
func efgColor(efg float64) string {
	switch {
	case efg >= 0.6:
		return "#c0392b"
	case efg >= 0.5:
		return "#e67e22"
	case efg >= 0.4:
		return "#f1c40f"
	default:
		return "#2e86c1"
	}
}
