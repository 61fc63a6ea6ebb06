package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"heatcal/heatmap"
)

// CalDAV XML structures
type propfindRequest struct {
	XMLName xml.Name `xml:"DAV: propfind"`
	Prop    prop     `xml:"DAV: prop"`
}

type prop struct {
	DisplayName   string       `xml:"DAV: displayname"`
	ResourceType  resourceType `xml:"DAV: resourcetype"`
	CalendarColor string       `xml:"http://apple.com/ns/ical/ calendar-color"`
	CalendarData  string       `xml:"urn:ietf:params:xml:ns:caldav calendar-data,omitempty"`
}

type resourceType struct {
	Calendar *struct{} `xml:"urn:ietf:params:xml:ns:caldav calendar"`
}

type multistatus struct {
	XMLName  xml.Name   `xml:"DAV: multistatus"`
	Response []response `xml:"DAV: response"`
}

type response struct {
	Href     string     `xml:"DAV: href"`
	Propstat []propstat `xml:"DAV: propstat"`
}

type propstat struct {
	Status string `xml:"DAV: status"`
	Prop   prop   `xml:"DAV: prop"`
}

// ok returns the propstat reporting status 200, if any.
func (r response) ok() *propstat {
	for i := range r.Propstat {
		if strings.Contains(r.Propstat[i].Status, "200") {
			return &r.Propstat[i]
		}
	}
	return nil
}

func newRadicaleRequest(method, url string, body io.Reader, config *RadicaleConfig) (*http.Request, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if config.Username != "" {
		req.SetBasicAuth(config.Username, config.Password)
	}
	return req, nil
}

// loadCalendarsFromRadicale discovers the calendar collections of the
// configured user. The user collection is tried first, then the server root.
func loadCalendarsFromRadicale(config *RadicaleConfig) ([]CalDAVCalendar, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	serverURL := strings.TrimSuffix(config.ServerURL, "/")

	pathsToTry := []string{"/"}
	if config.Username != "" {
		pathsToTry = []string{"/" + config.Username + "/", "/"}
	}

	var lastErr error
	for _, basePath := range pathsToTry {
		var buf bytes.Buffer
		buf.WriteString(xml.Header)
		if err := xml.NewEncoder(&buf).Encode(propfindRequest{}); err != nil {
			return nil, err
		}

		fullURL := serverURL + basePath
		req, err := newRadicaleRequest("PROPFIND", fullURL, &buf, config)
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Content-Type", "application/xml; charset=utf-8")
		req.Header.Set("Depth", "1")

		calendars, err := discoverCalendars(client, req, serverURL, basePath)
		if err != nil {
			lastErr = err
			continue
		}
		if len(calendars) > 0 {
			return calendars, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("no calendars found on %s", config.ServerURL)
}

func discoverCalendars(client *http.Client, req *http.Request, serverURL, basePath string) ([]CalDAVCalendar, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusMultiStatus {
		return nil, fmt.Errorf("failed to discover calendars at %s (status %d): %s",
			req.URL, resp.StatusCode, truncate(string(body), 200))
	}

	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("parse PROPFIND response: %w", err)
	}

	var calendars []CalDAVCalendar
	for _, r := range ms.Response {
		ps := r.ok()
		if ps == nil || ps.Prop.ResourceType.Calendar == nil {
			continue
		}

		href := r.Href
		if !strings.HasPrefix(href, "/") {
			href = basePath + href
		}
		if !strings.HasSuffix(href, "/") {
			href += "/"
		}
		if href == basePath {
			continue
		}

		name := ps.Prop.DisplayName
		if name == "" {
			name = path.Base(strings.TrimSuffix(href, "/"))
		}
		calendars = append(calendars, CalDAVCalendar{
			DisplayName: name,
			URL:         serverURL + href,
			Color:       ps.Prop.CalendarColor,
		})
	}
	return calendars, nil
}

// loadICSFromRadicale fetches the events of one calendar collection. Radicale
// serves a collection as a single iCalendar document on GET.
func loadICSFromRadicale(calendarURL string, calendarName string, color lipgloss.Color, config *RadicaleConfig) ([]Event, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	baseURL := strings.TrimSuffix(calendarURL, "/")
	urlsToTry := []string{calendarURL, baseURL + ".ics"}

	var lastErr error
	for _, url := range urlsToTry {
		req, err := newRadicaleRequest(http.MethodGet, url, nil, config)
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Accept", "text/calendar")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK:
			if !strings.HasPrefix(strings.TrimSpace(string(body)), "BEGIN:VCALENDAR") {
				lastErr = fmt.Errorf("%s: response is not calendar data", url)
				continue
			}
			events, err := loadICSFromReader(bytes.NewReader(body), calendarName, color)
			if err != nil {
				lastErr = fmt.Errorf("failed to parse calendar data: %w", err)
				continue
			}
			return events, nil
		case http.StatusMultiStatus:
			return parseCalendarFromMultistatus(body, calendarName, color)
		default:
			lastErr = fmt.Errorf("%s: HTTP %d: %s", url, resp.StatusCode, truncate(string(body), 200))
		}
	}

	return nil, fmt.Errorf("failed to load calendar %q from %s: %w", calendarName, calendarURL, lastErr)
}

// parseCalendarFromMultistatus reads the calendar-data properties of a
// CalDAV multistatus response. Each one holds a VCALENDAR of its own.
func parseCalendarFromMultistatus(body []byte, calendarName string, color lipgloss.Color) ([]Event, error) {
	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("parse multistatus: %w", err)
	}

	var events []Event
	found := false
	for _, r := range ms.Response {
		ps := r.ok()
		if ps == nil {
			continue
		}
		data := strings.TrimSpace(ps.Prop.CalendarData)
		if data == "" {
			continue
		}
		found = true
		parsed, err := loadICSFromReader(strings.NewReader(data), calendarName, color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Href, err)
		}
		events = append(events, parsed...)
	}

	if !found {
		return nil, fmt.Errorf("no calendar-data found in multistatus response")
	}
	return events, nil
}

// radicaleColor turns a calendar-color property (#RRGGBB or #RRGGBBAA) into
// a legend color.
func radicaleColor(c string) (lipgloss.Color, bool) {
	c = strings.TrimSpace(c)
	if len(c) == 9 {
		c = c[:7]
	}
	if len(c) != 7 {
		return "", false
	}
	if _, err := heatmap.ParseHexColor(c); err != nil {
		return "", false
	}
	return lipgloss.Color(c), true
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
