package summary

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/report-viewer/internal/types"
	"github.com/jonathan/report-viewer/internal/view"
)

// SiteImpactLimit caps the rows of the site impact table.
const SiteImpactLimit = 20

// RankSites returns the sites ordered by count, highest first, keeping the
// document order between equal counts. The input is not modified.
func RankSites(sites []types.SiteImpact) []types.SiteImpact {
	ranked := make([]types.SiteImpact, len(sites))
	copy(ranked, sites)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// SiteImpactSection renders the site dictionary with the questions each site
// touched, resolved to their prompts where known.
func SiteImpactSection(dict *types.SiteDictionary, prompts map[string]string) *view.Node {
	if dict == nil || len(dict.Sites) == 0 {
		return view.Empty("No site impact recorded.")
	}

	ranked := head(RankSites(dict.Sites), SiteImpactLimit)
	return view.El("table", view.Class("site-impact"),
		view.N(view.El("thead", view.N(view.El("tr",
			view.N(view.El("th", view.T("Site"))),
			view.N(view.El("th", view.T("Mentions"))),
			view.N(view.El("th", view.T("Questions"))),
		)))),
		view.N(view.El("tbody", view.Map(ranked, func(site types.SiteImpact) *view.Node {
			return view.El("tr",
				view.N(view.El("td", view.T(site.Site))),
				view.N(view.El("td", view.T(strconv.Itoa(site.Count)))),
				view.N(view.El("td", view.Class("muted"), view.T(questionList(site, prompts)))),
			)
		}))),
	)
}

func questionList(site types.SiteImpact, prompts map[string]string) string {
	if len(site.Questions) == 0 {
		return "—"
	}
	ids := make([]string, 0, len(site.Questions))
	for id := range site.Questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if prompt := prompts[id]; prompt != "" {
			labels = append(labels, prompt)
		} else {
			labels = append(labels, id)
		}
	}
	return strings.Join(labels, "; ")
}
