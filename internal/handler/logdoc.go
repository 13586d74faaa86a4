package handler

// LogDoc is the structured build log written after every setup pass.
type LogDoc struct {
	File      *FileLog         `json:"File,omitempty"`
	Hardware  []map[string]any `json:"Hardware,omitempty"`
	Functions []map[string]any `json:"Functions,omitempty"`
	Links     []LinkLog        `json:"Links,omitempty"`
}

// FileLog reports a setup document that could not be read or parsed.
type FileLog struct {
	Name  string `json:"Name"`
	Error string `json:"Error"`
}

// LinkLog lists the endpoints of one link record that failed to resolve.
type LinkLog struct {
	IN    []string `json:"IN"`
	OUT   []string `json:"OUT"`
	Fault string   `json:"Fault,omitempty"`
}

// Log entry messages.
const (
	faultTypeNotFound = "Type not found"
	faultDuplicate    = "duplicate name"
	failPrefix        = "FAIL: "
)
