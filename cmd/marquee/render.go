package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/justchokingaround/marquee/internal/catalog"
	"github.com/justchokingaround/marquee/internal/subtitles"
	"github.com/justchokingaround/marquee/internal/textfmt"
	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ratingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

const (
	textWidth  = 78
	titleWidth = 48
)

func disableColor() {
	plain := lipgloss.NewStyle()
	titleStyle = plain
	headerStyle = plain.MarginTop(1)
	dimStyle = plain
	ratingStyle = plain
	errorStyle = plain
	successStyle = plain
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func rating(v float64) string {
	if v <= 0 {
		return dimStyle.Render("unrated")
	}
	return ratingStyle.Render(fmt.Sprintf("★ %.1f", v))
}

// released renders a provider date as "2019-10-04 (6 years ago)"
func released(date string) string {
	if date == "" {
		return dimStyle.Render("unknown")
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", date, dimStyle.Render("("+humanize.Time(t)+")"))
}

func renderItem(w io.Writer, n int, item types.CatalogItem) {
	fmt.Fprintf(w, "  %2d. %s %s %s\n", n, textfmt.Truncate(item.Title, titleWidth), dimStyle.Render(fmt.Sprintf("[%s #%d]", item.Kind, item.ID)), rating(item.Rating))
}

func renderHome(w io.Writer, home *types.HomeModel, imageBase string) {
	if home.Hero != nil {
		fmt.Fprintln(w, titleStyle.Render(home.Hero.Title), rating(home.Hero.Rating))
		if url := home.Hero.BackdropURL(imageBase, "w1280"); url != "" {
			fmt.Fprintln(w, dimStyle.Render(url))
		}
	}

	for _, cat := range home.Categories {
		fmt.Fprintln(w, headerStyle.Render(cat.Title))
		if cat.Loading {
			fmt.Fprintln(w, dimStyle.Render("  (loads lazily; pass --lazy)"))
			continue
		}
		if len(cat.Items) == 0 {
			fmt.Fprintln(w, dimStyle.Render("  (empty)"))
			continue
		}
		for i, item := range cat.Items {
			renderItem(w, i+1, item)
		}
	}
}

func genreNames(genres []tmdb.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

func renderDetails(w io.Writer, b *catalog.DetailBundle) {
	switch {
	case b.Movie != nil:
		m := b.Movie
		fmt.Fprintln(w, titleStyle.Render(m.Title), rating(m.VoteAverage), dimStyle.Render(humanize.Comma(int64(m.VoteCount))+" votes"))
		if m.Tagline != "" {
			fmt.Fprintln(w, dimStyle.Render(m.Tagline))
		}
		fmt.Fprintf(w, "Released: %s\n", released(m.ReleaseDate))
		if m.Runtime != nil && *m.Runtime > 0 {
			fmt.Fprintf(w, "Runtime:  %s\n", (time.Duration(*m.Runtime) * time.Minute).String())
		}
		if m.Budget > 0 {
			fmt.Fprintf(w, "Budget:   $%s\n", humanize.Comma(m.Budget))
		}
		fmt.Fprintf(w, "Genres:   %s\n", genreNames(m.Genres))
		fmt.Fprintf(w, "\n%s\n", textfmt.Clamp(m.Overview, 0, textWidth))
	case b.Series != nil:
		s := b.Series
		fmt.Fprintln(w, titleStyle.Render(s.Name), rating(s.VoteAverage), dimStyle.Render(humanize.Comma(int64(s.VoteCount))+" votes"))
		fmt.Fprintf(w, "First aired: %s\n", released(s.FirstAirDate))
		fmt.Fprintf(w, "Seasons:     %d (%d episodes)\n", s.NumberOfSeasons, s.NumberOfEpisodes)
		fmt.Fprintf(w, "Status:      %s\n", s.Status)
		fmt.Fprintf(w, "Genres:      %s\n", genreNames(s.Genres))
		fmt.Fprintf(w, "\n%s\n", textfmt.Clamp(s.Overview, 0, textWidth))
		for _, season := range s.Seasons {
			fmt.Fprintf(w, "  %s %s\n", season.Name, dimStyle.Render(fmt.Sprintf("(%d episodes)", season.EpisodeCount)))
		}
	}

	if b.Credits != nil && len(b.Credits.Cast) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Cast"))
		for i, c := range b.Credits.Cast {
			if i == 8 {
				break
			}
			fmt.Fprintf(w, "  %s %s\n", c.Name, dimStyle.Render("as "+c.Character))
		}
	}

	if url := trailerURL(b); url != "" {
		fmt.Fprintln(w, headerStyle.Render("Trailer"))
		fmt.Fprintf(w, "  %s\n", url)
	}

	for _, facet := range []struct {
		title string
		list  *tmdb.ListResponse
	}{{"Similar", b.Similar}, {"Recommended", b.Recommendations}} {
		if facet.list == nil || len(facet.list.Results) == 0 {
			continue
		}
		fmt.Fprintln(w, headerStyle.Render(facet.title))
		items := catalog.ToCatalogItems(facet.list.Results, b.Kind)
		for i, item := range items {
			if i == 5 {
				break
			}
			renderItem(w, i+1, item)
		}
	}
}

// trailerURL returns the first YouTube trailer of the bundle, if any
func trailerURL(b *catalog.DetailBundle) string {
	if b.Videos == nil {
		return ""
	}
	for _, v := range b.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return "https://www.youtube.com/watch?v=" + v.Key
		}
	}
	return ""
}

// detailLink is what --copy and --open act on: the trailer, else the poster
func detailLink(b *catalog.DetailBundle, imageBase string) string {
	if url := trailerURL(b); url != "" {
		return url
	}
	var poster string
	switch {
	case b.Movie != nil:
		poster = b.Movie.PosterPath
	case b.Series != nil:
		poster = b.Series.PosterPath
	}
	return types.CatalogItem{PosterPath: poster}.PosterURL(imageBase, "original")
}

func renderSeason(w io.Writer, s *tmdb.SeasonDetails) {
	fmt.Fprintln(w, titleStyle.Render(s.Name), dimStyle.Render(released(s.AirDate)))
	for _, ep := range s.Episodes {
		runtime := ""
		if ep.Runtime != nil && *ep.Runtime > 0 {
			runtime = dimStyle.Render(fmt.Sprintf(" %dm", *ep.Runtime))
		}
		fmt.Fprintf(w, "  %2d. %s%s %s\n", ep.EpisodeNumber, textfmt.Truncate(ep.Name, titleWidth), runtime, rating(ep.VoteAverage))
		if ep.Overview != "" {
			fmt.Fprintln(w, dimStyle.Render(textfmt.Indent(textfmt.Clamp(ep.Overview, 2, textWidth-6), "      ")))
		}
	}
}

func renderCandidates(w io.Writer, candidates []subtitles.Candidate) {
	for i, c := range candidates {
		fmt.Fprintf(w, "  %2d. %s %s %s\n",
			i,
			textfmt.Truncate(c.ReleaseName, 60),
			dimStyle.Render(fmt.Sprintf("[%s, %s]", c.LanguageName, c.Format)),
			dimStyle.Render(humanize.Comma(int64(c.Downloads))+" downloads"),
		)
	}
}

// renderSubtitleSummary goes to stderr so the subtitle text itself can be piped
func renderSubtitleSummary(res types.SubtitleResult) {
	if !res.Success {
		fmt.Fprintln(os.Stderr, errorStyle.Render(res.Error))
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n",
		successStyle.Render("✓"),
		res.ReleaseName,
		dimStyle.Render(fmt.Sprintf("(%d of %d, %s)", res.CurrentIndex+1, res.TotalAvailable, humanize.Bytes(uint64(len(res.SRTContent))))),
	)
}
