package hydrate

import (
	"encoding/json"
	"strings"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
)

// DataScriptID is the id of the script element holding the hydration data.
const DataScriptID = "rmx-data"

// Data is the side-channel blob rendered by the server.
type Data struct {
	H map[string]RegionData `json:"h"`
	F map[string]FrameData  `json:"f"`
}

// RegionData references the component of one hydration region.
type RegionData struct {
	ModuleURL  string          `json:"moduleUrl"`
	ExportName string          `json:"exportName"`
	Props      json.RawMessage `json:"props,omitempty"`
}

// Frame statuses.
const (
	// FrameResolved frames were rendered with their content.
	FrameResolved = "resolved"

	// FramePending frames were rendered with a placeholder; the client
	// resolves their content.
	FramePending = "pending"
)

// FrameData describes one frame region.
type FrameData struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Src    string `json:"src"`
}

// NewData returns an empty blob.
func NewData() *Data {
	return &Data{H: make(map[string]RegionData), F: make(map[string]FrameData)}
}

// ParseData decodes a data blob.
func ParseData(text string) (*Data, error) {
	d := NewData()
	if strings.TrimSpace(text) == "" {
		return d, nil
	}
	if err := json.Unmarshal([]byte(text), d); err != nil {
		return nil, rerrors.New(rerrors.CodeDataInvalid).Wrap(err)
	}
	if d.H == nil {
		d.H = make(map[string]RegionData)
	}
	if d.F == nil {
		d.F = make(map[string]FrameData)
	}
	return d, nil
}

// ReadData finds the data script under root and decodes it. A document
// without one yields empty data.
func ReadData(root *dom.Node) (*Data, error) {
	script := root.GetElementByID(DataScriptID)
	if script == nil {
		return NewData(), nil
	}
	return ParseData(script.TextContent())
}

// Merge copies other's entries into d. Entries in other win.
func (d *Data) Merge(other *Data) {
	if other == nil {
		return
	}
	for id, r := range other.H {
		d.H[id] = r
	}
	for id, f := range other.F {
		d.F[id] = f
	}
}

// Encode returns the blob as JSON. encoding/json escapes <, > and & so the
// result can be embedded in a script element as is.
func (d *Data) Encode() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
