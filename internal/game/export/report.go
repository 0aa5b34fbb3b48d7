package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/mapgen"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/topology"
)

// ReportOptions selects the optional sections of a report.
type ReportOptions struct {
	TTS bool
	URL bool
}

// WriteReport prints the search summary, the per-player score table, each
// player's slice and the requested export strings.
func WriteReport(w io.Writer, r *mapgen.Result, l *layout.Layout, topo *topology.Topology, opts ReportOptions) error {
	status := "converged"
	if !r.Converged {
		status = fmt.Sprintf("not converged (tolerance %.4f)", r.Tolerance)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board:      %s (%s, aggression %s)\n", l.Name, r.Version, r.Aggression)
	fmt.Fprintf(&b, "Run:        %s\n", r.RunID)
	fmt.Fprintf(&b, "Imbalance:  %.4f, %s\n", r.Imbalance, status)
	fmt.Fprintf(&b, "Search:     %s iterations over %s in %s\n\n",
		humanize.Comma(r.Iterations), english.Plural(r.Attempts, "attempt", ""), r.Duration.Round(time.Millisecond))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tHOME\tSCORE\tSLICE\tSHARED")
	players := make([]core.Player, 0, len(r.Scores))
	for p := range r.Scores {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i] < players[j] })
	for _, p := range players {
		slice, shared := r.SliceSystems(topo, p)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p, topo.Home(p), humanize.FtoaWithDigits(r.Scores[p], 2),
			strings.Join(slice, " "), strings.Join(shared, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.TTS {
		if _, err := fmt.Fprintf(w, "\nTTS string:\n%s\n", TTSString(l, r.Assignment)); err != nil {
			return err
		}
	}
	if opts.URL {
		if _, err := fmt.Fprintf(w, "\nMap viewer:\n%s\n", MapURL(l, r.Assignment)); err != nil {
			return err
		}
	}
	return nil
}
