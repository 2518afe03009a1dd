package planner

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/palassaha/SC2-Backend/internal/search"
)

const maxResourcesPerModule = 4

// Resource is one study link attached to a plan module.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// siteLabels names well-known learning sites for resource titles. Order
// matters: the first match wins.
var siteLabels = []struct {
	site  string
	label string
}{
	{"youtube.com", "Video Tutorial"},
	{"medium.com", "Article"},
	{"dev.to", "Tutorial"},
	{"stackoverflow.com", "Q&A Resource"},
	{"github.com", "Code Repository"},
	{"docs.python.org", "Documentation"},
	{"developer.mozilla.org", "Documentation"},
	{"w3schools.com", "Tutorial"},
	{"geeksforgeeks.org", "Tutorial"},
	{"leetcode.com", "Practice Problems"},
	{"hackerrank.com", "Practice Platform"},
	{"coursera.org", "Course"},
	{"udemy.com", "Course"},
	{"edx.org", "Course"},
}

var resourceTypes = []struct {
	sites []string
	kind  string
}{
	{[]string{"youtube.com", "vimeo.com"}, "video"},
	{[]string{"github.com", "gitlab.com"}, "repository"},
	{[]string{"leetcode.com", "hackerrank.com", "codewars.com"}, "practice"},
	{[]string{"docs.", "documentation"}, "documentation"},
	{[]string{"coursera.org", "udemy.com", "edx.org"}, "course"},
}

func buildResources(moduleTitle string, urls []string, max int) []Resource {
	if max > 0 && len(urls) > max {
		urls = urls[:max]
	}

	resources := make([]Resource, 0, len(urls))
	for i, resourceURL := range urls {
		resources = append(resources, Resource{
			Title: resourceTitle(moduleTitle, resourceURL, i),
			URL:   resourceURL,
			Type:  resourceType(resourceURL),
		})
	}

	return resources
}

func resourceTitle(moduleTitle, resourceURL string, index int) string {
	label := "Resource"
	lower := strings.ToLower(resourceURL)
	for _, entry := range siteLabels {
		if strings.Contains(lower, entry.site) {
			label = entry.label
			break
		}
	}

	if index == 0 {
		return fmt.Sprintf("%s - %s", moduleTitle, label)
	}
	return fmt.Sprintf("%s - %s %d", moduleTitle, label, index+1)
}

func resourceType(resourceURL string) string {
	lower := strings.ToLower(resourceURL)
	for _, entry := range resourceTypes {
		for _, site := range entry.sites {
			if strings.Contains(lower, site) {
				return entry.kind
			}
		}
	}
	return "article"
}

// fallbackResources gives a module something to study when every search
// came back empty.
func fallbackResources(moduleTitle string) []Resource {
	slug := strings.ToLower(strings.ReplaceAll(moduleTitle, " ", "+"))
	return []Resource{
		{
			Title: moduleTitle + " - Tutorial",
			URL:   "https://www.google.com/search?q=" + slug + "+tutorial",
			Type:  "article",
		},
		{
			Title: moduleTitle + " - Video Guide",
			URL:   "https://www.youtube.com/results?search_query=" + slug,
			Type:  "video",
		},
	}
}

// hostDeduped keeps the first result per host so one site cannot flood a
// single query's contribution.
func hostDeduped(results []search.Result) []string {
	seen := make(map[string]struct{}, len(results))
	urls := make([]string, 0, len(results))

	for _, result := range results {
		host := hostOf(result.URL)
		if host == "" {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		urls = append(urls, result.URL)
	}

	return urls
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// urlDeduped removes exact duplicates, preserving first-seen order.
func urlDeduped(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))

	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	return unique
}
