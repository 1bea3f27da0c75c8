package vgmusic

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/errors"
)

// headerRows is the number of column-header rows at the top of every
// song table.
const headerRows = 2

// infoURLPattern extracts the MD5 from a song's info page link, which the
// archive names /file/<md5>.html.
var infoURLPattern = regexp.MustCompile(`/file/(.*)\.html`)

// indexerVersionPattern pulls the version number out of the "generated by
// the VGMusic Indexer" address line at the bottom of each listing page.
var indexerVersionPattern = regexp.MustCompile(`[\d.]{3,}`)

// parseIndex reads the archive front page and returns one entry per
// system link. Systems are grouped in p.menu blocks, each preceded by a
// p.menularge heading naming the console family; the first menu is the
// site's own navigation and is skipped. Duplicate system names keep
// their first occurrence.
func parseIndex(r io.Reader, base *url.URL) ([]catalog.SystemInfo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewParseError(base.String(), "unreadable index page", err)
	}

	if doc.Find("p.menu").Length() == 0 {
		return nil, errors.NewParseError(base.String(), "no system menus found", nil)
	}

	var (
		infos    []catalog.SystemInfo
		section  string
		sawFirst bool
	)
	seen := make(map[string]bool)
	doc.Find("p.menularge, p.menu").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("menularge") {
			section = cleanText(s.Text())
			return
		}
		if !sawFirst {
			sawFirst = true
			return
		}
		s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			name := cleanText(a.Text())
			href, _ := a.Attr("href")
			target := resolveURL(base, href)
			if name == "" || target == "" || seen[name] {
				return
			}
			seen[name] = true
			infos = append(infos, catalog.SystemInfo{
				Name:    name,
				URL:     target,
				Section: section,
			})
		})
	})

	if len(infos) == 0 {
		return nil, errors.NewParseError(base.String(), "no systems found in menus", nil)
	}
	return infos, nil
}

// parsePage reads one system listing page. Song rows are grouped under
// tr.header rows naming the game; the first two rows of the table are
// column headers and blank rows are padding. A table with no rows is an
// empty system, a page with no table is a ParseError.
func parsePage(r io.Reader, pageURL *url.URL) (*catalog.Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewParseError(pageURL.String(), "unreadable system page", err)
	}

	page := &catalog.Page{
		IndexerVersion: indexerVersion(doc),
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.NewParseError(pageURL.String(), "no song table found", nil)
	}

	rows := table.Find("tr")
	if rows.Length() <= headerRows {
		return page, nil
	}

	var (
		game   string
		rowErr error
	)
	rows.Slice(headerRows, rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if row.HasClass("header") {
			game = cleanText(row.Text())
			return true
		}
		if cleanText(row.Text()) == "" {
			return true
		}
		if game == "" {
			// data row before the first game heading
			return true
		}
		song, err := parseRow(row, pageURL)
		if err != nil {
			rowErr = err
			return false
		}
		page.Entries = append(page.Entries, catalog.PageEntry{Game: game, Song: song})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return page, nil
}

// parseRow turns one data row into a Song. The archive's tables carry
// four cells: linked title, size in bytes, sequencer credit, and a link
// to the file's info page which encodes its MD5.
func parseRow(row *goquery.Selection, pageURL *url.URL) (catalog.Song, error) {
	cells := row.Find("td")
	if cells.Length() < 4 {
		return catalog.Song{}, errors.NewParseError(pageURL.String(),
			fmt.Sprintf("song row has %d cells, want 4", cells.Length()), nil)
	}

	title := cells.Eq(0)
	href, ok := title.Find("a[href]").First().Attr("href")
	if !ok {
		return catalog.Song{}, errors.NewParseError(pageURL.String(), "song row has no download link", nil)
	}

	size, err := parseSize(cells.Eq(1).Text())
	if err != nil {
		return catalog.Song{}, errors.NewParseError(pageURL.String(),
			fmt.Sprintf("unparseable size for %q", cleanText(title.Text())), err)
	}

	song := catalog.Song{
		URL:    resolveURL(pageURL, href),
		Title:  cleanText(title.Text()),
		Size:   size,
		Author: cleanText(cells.Eq(2).Text()),
	}
	if info, ok := cells.Eq(3).Find("a[href]").First().Attr("href"); ok {
		song.Checksum = checksumFromInfoURL(info)
	}
	return song, nil
}

// indexerVersion extracts the indexer version from the page's address
// footer, e.g. "Page generated by the VGMusic Indexer v2.41.".
func indexerVersion(doc *goquery.Document) string {
	addr := doc.Find("address").First()
	if addr.Length() == 0 {
		return ""
	}
	m := indexerVersionPattern.FindString(addr.Text())
	return strings.TrimRight(m, ".")
}

// parseSize parses the archive's size cell, "12345 bytes", into an int.
func parseSize(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty size cell")
	}
	return strconv.Atoi(fields[0])
}

// checksumFromInfoURL pulls the MD5 out of an info page href. Links that
// do not follow the /file/<md5>.html shape yield an empty checksum.
func checksumFromInfoURL(href string) string {
	m := infoURLPattern.FindStringSubmatch(href)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// resolveURL makes href absolute against the page it appeared on.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// cleanText collapses runs of whitespace to single spaces and trims the
// ends.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
