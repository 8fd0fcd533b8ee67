package crawler

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxTitleLen bounds extracted page titles.
const maxTitleLen = 240

// emailRe matches RFC-ish local@domain tokens.
var emailRe = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)

// phoneRe matches North-American 10-digit numbers with optional country code
// and flexible separators.
var phoneRe = regexp.MustCompile(`(?:\+1[-.\s]?)?\(?\b\d{3}\b\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

// whitespaceRe collapses whitespace runs in extracted text.
var whitespaceRe = regexp.MustCompile(`\s+`)

// contactLinkHints flag same-domain links likely to carry contact signals,
// matched against both the link path and the anchor text.
var contactLinkHints = []string{"contact", "about", "team", "leadership", "company", "locations"}

// roleEmailHints mark role-specific mailboxes preferred over generic inboxes.
var roleEmailHints = []string{"operations", "plant", "manufacturing", "engineering", "automation"}

// genericEmailPrefixes mark catch-all inboxes deprioritized when a
// role-specific alternative exists.
var genericEmailPrefixes = []string{"info@", "contact@", "sales@"}

// contactFormSignals must appear in the page text for a <form> to count as a
// usable contact form.
var contactFormSignals = []string{"contact", "message", "inquiry"}

// Link is an absolute page link with its lowercased anchor text.
type Link struct {
	URL  string
	Text string
}

// PageData holds the signals heuristically extracted from one page.
type PageData struct {
	URL            string
	Title          string
	Text           string
	Emails         []string
	Phones         []string
	Links          []Link
	ContactLinks   []string
	LinkedInURL    string
	ContactFormURL string
}

// Extract parses a page and pulls out every contact signal the pipeline
// consumes. It never fails: unparseable fragments simply contribute nothing.
func Extract(pageURL, html string) *PageData {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// goquery's tokenizer is tolerant; a hard error means the input is
		// not usable at all.
		return &PageData{URL: pageURL}
	}

	data := &PageData{URL: pageURL}
	data.Title = extractTitle(doc)
	data.Links = extractLinks(doc, pageURL)
	data.Text = extractText(doc)
	data.Emails = uniqueMatches(emailRe, html)
	data.Phones = uniquePhones(html)
	data.ContactLinks = contactLinkCandidates(data.Links, domainOf(pageURL))
	data.LinkedInURL = extractLinkedIn(data.Links)
	data.ContactFormURL = findContactForm(doc, data.Text, pageURL)

	return data
}

// extractTitle prefers <title>, falling back to the first <h1>.
func extractTitle(doc *goquery.Document) string {
	title := collapseWhitespace(doc.Find("title").First().Text())
	if title == "" {
		title = collapseWhitespace(doc.Find("h1").First().Text())
	}
	return truncate(title, maxTitleLen)
}

// extractText returns the page's plain text with script and style content
// stripped first and whitespace runs collapsed to single spaces.
func extractText(doc *goquery.Document) string {
	cloned := doc.Selection.Clone()
	cloned.Find("script, style").Remove()
	return collapseWhitespace(cloned.Text())
}

// extractLinks resolves every anchor against the page URL, keeping only
// http(s) targets, each paired with its lowercased anchor text.
func extractLinks(doc *goquery.Document, pageURL string) []Link {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, parseErr := url.Parse(href)
		if parseErr != nil {
			return
		}

		absolute := base.ResolveReference(ref)
		if absolute.Scheme != "http" && absolute.Scheme != "https" {
			return
		}

		links = append(links, Link{
			URL:  absolute.String(),
			Text: strings.ToLower(collapseWhitespace(sel.Text())),
		})
	})

	return links
}

// contactLinkCandidates keeps same-domain links whose path or anchor text
// contains a contact hint, deduplicated preserving first-seen order.
func contactLinkCandidates(links []Link, domain string) []string {
	var candidates []string
	seen := make(map[string]struct{})

	for _, link := range links {
		parsed, err := url.Parse(link.URL)
		if err != nil {
			continue
		}

		host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
		if host != domain {
			continue
		}

		pathLower := strings.ToLower(parsed.Path)
		if !containsAny(pathLower, contactLinkHints) && !containsAny(link.Text, contactLinkHints) {
			continue
		}

		if _, dup := seen[link.URL]; dup {
			continue
		}
		seen[link.URL] = struct{}{}
		candidates = append(candidates, link.URL)
	}

	return candidates
}

// extractLinkedIn returns the first link pointing at a LinkedIn company or
// personal profile.
func extractLinkedIn(links []Link) string {
	for _, link := range links {
		if strings.Contains(link.URL, "linkedin.com/company") ||
			strings.Contains(link.URL, "linkedin.com/in/") {
			return link.URL
		}
	}
	return ""
}

// findContactForm reports the page's own URL as a contact form location when
// the page contains a <form> element and its text mentions a contact signal.
func findContactForm(doc *goquery.Document, text, pageURL string) string {
	if doc.Find("form").Length() == 0 {
		return ""
	}
	if containsAny(strings.ToLower(text), contactFormSignals) {
		return pageURL
	}
	return ""
}

// PickPrimaryEmail selects the best outreach mailbox from the union of
// emails found across a company's pages. Image-file tokens, placeholder
// domains, and no-reply addresses are discarded; survivors are ranked to
// favor role-specific mailboxes, then non-generic prefixes, then shorter
// addresses.
func PickPrimaryEmail(emails []string) string {
	var normalized []string
	for _, email := range emails {
		lower := strings.Trim(strings.ToLower(email), " .,;:\")'")
		if hasImageSuffix(lower) {
			continue
		}
		if strings.Contains(lower, "@example.") {
			continue
		}
		if strings.Contains(lower, "@mysite.com") ||
			strings.Contains(lower, "@yourdomain.com") ||
			strings.Contains(lower, "no-reply@") ||
			strings.Contains(lower, "noreply@") {
			continue
		}
		normalized = append(normalized, lower)
	}

	if len(normalized) == 0 {
		return ""
	}

	sort.Slice(normalized, func(i, j int) bool {
		a, b := emailRank(normalized[i]), emailRank(normalized[j])
		if a.role != b.role {
			return a.role < b.role
		}
		if a.generic != b.generic {
			return a.generic < b.generic
		}
		if len(normalized[i]) != len(normalized[j]) {
			return len(normalized[i]) < len(normalized[j])
		}
		return normalized[i] < normalized[j]
	})

	return normalized[0]
}

// emailRankKey orders candidate emails: role-hinted first, then non-generic.
type emailRankKey struct {
	role    int // 0 when a role hint is present
	generic int // 1 when a generic prefix is present
}

func emailRank(email string) emailRankKey {
	key := emailRankKey{role: 1}
	if containsAny(email, roleEmailHints) {
		key.role = 0
	}
	for _, prefix := range genericEmailPrefixes {
		if strings.HasPrefix(email, prefix) {
			key.generic = 1
			break
		}
	}
	return key
}

// hasImageSuffix filters tokens that are actually image file names matched
// by the email pattern (e.g. logo@2x.png).
func hasImageSuffix(token string) bool {
	for _, suffix := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"} {
		if strings.HasSuffix(token, suffix) {
			return true
		}
	}
	return false
}

// uniqueMatches returns deduplicated regexp matches preserving first-seen
// order.
func uniqueMatches(re *regexp.Regexp, text string) []string {
	var matches []string
	seen := make(map[string]struct{})
	for _, match := range re.FindAllString(text, -1) {
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		matches = append(matches, match)
	}
	return matches
}

// uniquePhones returns deduplicated, trimmed phone matches.
func uniquePhones(text string) []string {
	var phones []string
	seen := make(map[string]struct{})
	for _, match := range phoneRe.FindAllString(text, -1) {
		trimmed := strings.TrimSpace(match)
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		phones = append(phones, trimmed)
	}
	return phones
}

// domainOf normalizes a page URL to its company domain.
func domainOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
