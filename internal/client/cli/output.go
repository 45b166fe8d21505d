package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/plume/internal/api"
)

func secondsFlag(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func printUser(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "#%d %s (%s)\n", u.ID, u.Pseudo, u.Role)
	if u.Email != "" {
		fmt.Fprintf(w, "  email:  %s\n", u.Email)
	}
	if u.TotemID != nil {
		fmt.Fprintf(w, "  totem:  #%d\n", *u.TotemID)
	}
	if u.Locked {
		fmt.Fprintln(w, "  locked")
	}
}

func printPoem(w io.Writer, p *api.Poem) {
	fmt.Fprintf(w, "#%d %q by #%d [%s, %s, %s]\n", p.ID, p.Title, p.AuthorID, p.Status, p.Mood, p.Symbol)
	if p.Content != "" {
		fmt.Fprintln(w)
		for _, line := range strings.Split(p.Content, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

func printPoems(w io.Writer, poems []*api.Poem) error {
	if len(poems) == 0 {
		fmt.Fprintln(w, "No poems.")
		return nil
	}
	return table(w, "ID\tTITLE\tAUTHOR\tSTATUS\tMOOD\tSYMBOL", func(tw *tabwriter.Writer) {
		for _, p := range poems {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n", p.ID, p.Title, p.AuthorID, p.Status, p.Mood, p.Symbol)
		}
	})
}

func printTally(w io.Writer, t api.Tally, symbol string) {
	fmt.Fprintf(w, "bronze %d, silver %d, gold %d -> %s\n", t.Bronze, t.Silver, t.Gold, symbol)
}

func printRewards(w io.Writer, rewards []*api.Reward) error {
	if len(rewards) == 0 {
		fmt.Fprintln(w, "No rewards yet.")
		return nil
	}
	return table(w, "CODE\tLABEL\tGRANTED", func(tw *tabwriter.Writer) {
		for _, r := range rewards {
			granted := ""
			if r.GrantedAt != nil {
				granted = r.GrantedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Code, r.Label, granted)
		}
	})
}
