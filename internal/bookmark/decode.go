package bookmark

import (
	"bytes"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// UntitledFolder is the title given to folders that arrive without one.
const UntitledFolder = "Untitled folder"

// IssueKind classifies a malformed entry found while decoding.
type IssueKind string

const (
	IssueNotAnObject     IssueKind = "not_an_object"
	IssueInvalidEntry    IssueKind = "invalid_entry"
	IssueUnknownType     IssueKind = "unknown_type"
	IssueMissingTitle    IssueKind = "missing_title"
	IssueMissingURL      IssueKind = "missing_url"
	IssueInvalidURL      IssueKind = "invalid_url"
	IssueInvalidAddDate  IssueKind = "invalid_add_date"
	IssueInvalidChildren IssueKind = "invalid_children"
)

// Issue describes one malformed entry. The entry was either dropped or
// degraded; decoding continued either way.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Path    []string  `json:"path"`
	Detail  string    `json:"detail,omitempty"`
	Dropped bool      `json:"dropped"`
}

// String renders the issue for logs and lint output.
func (i Issue) String() string {
	s := fmt.Sprintf("%s at %s", i.Kind, strings.Join(i.Path, " > "))
	if i.Detail != "" {
		s += ": " + i.Detail
	}
	return s
}

// rawNode mirrors one element of the export document.
// Pointers distinguish missing fields from empty ones.
type rawNode struct {
	Type     *string         `json:"type"`
	Title    *string         `json:"title"`
	URL      *string         `json:"url"`
	Icon     *string         `json:"icon"`
	AddDate  json.RawMessage `json:"addDate"`
	Children json.RawMessage `json:"children"`
}

// Decode parses a bookmark export: a JSON array of root nodes.
// Only a document that is not a JSON array is an error; bad entries are
// dropped or degraded and reported as issues.
func Decode(data []byte) ([]*Node, []Issue, error) {
	var elems []json.RawMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, fmt.Errorf("bookmark document must be a JSON array")
	}
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, nil, fmt.Errorf("parse bookmark document: %w", err)
	}

	d := &decoder{}
	nodes := d.decodeList(elems, nil)
	return nodes, d.issues, nil
}

type decoder struct {
	issues []Issue
}

func (d *decoder) report(kind IssueKind, path []string, detail string, dropped bool) {
	d.issues = append(d.issues, Issue{
		Kind:    kind,
		Path:    append([]string(nil), path...),
		Detail:  detail,
		Dropped: dropped,
	})
}

func (d *decoder) decodeList(elems []json.RawMessage, parent []string) []*Node {
	nodes := make([]*Node, 0, len(elems))
	for i, elem := range elems {
		if n := d.decodeNode(elem, parent, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (d *decoder) decodeNode(elem json.RawMessage, parent []string, index int) *Node {
	placeholder := append(append([]string(nil), parent...), fmt.Sprintf("#%d", index))

	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		d.report(IssueNotAnObject, placeholder, "", true)
		return nil
	}

	var raw rawNode
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		d.report(IssueInvalidEntry, placeholder, err.Error(), true)
		return nil
	}

	title := ""
	if raw.Title != nil {
		title = *raw.Title
	}
	path := placeholder
	if strings.TrimSpace(title) != "" {
		path = append(append([]string(nil), parent...), title)
	}

	kind := ""
	if raw.Type != nil {
		kind = *raw.Type
	}

	switch Kind(kind) {
	case KindFolder:
		return d.decodeFolder(raw, title, path)
	case KindLink:
		return d.decodeLink(raw, title, path)
	default:
		d.report(IssueUnknownType, path, fmt.Sprintf("type %q", kind), true)
		return nil
	}
}

func (d *decoder) decodeFolder(raw rawNode, title string, path []string) *Node {
	if strings.TrimSpace(title) == "" {
		d.report(IssueMissingTitle, path, "folder renamed to "+UntitledFolder, false)
		title = UntitledFolder
		path = append(path[:len(path)-1:len(path)-1], title)
	}

	folder := NewFolder(title)
	folder.AddedAt = d.decodeAddDate(raw.AddDate, path)

	children := bytes.TrimSpace(raw.Children)
	if len(children) == 0 || bytes.Equal(children, []byte("null")) {
		return folder
	}
	var elems []json.RawMessage
	if children[0] != '[' {
		d.report(IssueInvalidChildren, path, "children is not an array", false)
		return folder
	}
	if err := json.Unmarshal(children, &elems); err != nil {
		d.report(IssueInvalidChildren, path, err.Error(), false)
		return folder
	}
	folder.Children = d.decodeList(elems, path)
	return folder
}

func (d *decoder) decodeLink(raw rawNode, title string, path []string) *Node {
	rawURL := ""
	if raw.URL != nil {
		rawURL = strings.TrimSpace(*raw.URL)
	}
	if rawURL == "" {
		d.report(IssueMissingURL, path, "", true)
		return nil
	}
	if strings.TrimSpace(title) == "" {
		d.report(IssueMissingTitle, path, "using url as title", false)
		title = rawURL
	}
	if !IsAbsoluteURL(rawURL) {
		d.report(IssueInvalidURL, path, rawURL, false)
	}

	link := NewLink(title, rawURL)
	if raw.Icon != nil {
		link.Icon = strings.TrimSpace(*raw.Icon)
	}
	link.AddedAt = d.decodeAddDate(raw.AddDate, path)
	return link
}

// decodeAddDate accepts a JSON number or a numeric string.
func (d *decoder) decodeAddDate(raw json.RawMessage, path []string) *int64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int64Ptr(v)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64Ptr(int64(f))
	}
	d.report(IssueInvalidAddDate, path, string(raw), false)
	return nil
}

// IsAbsoluteURL reports whether raw parses as an absolute URL with a host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
