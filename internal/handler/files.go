package handler

// Files names the documents a Handler reads and writes in its Store.
type Files struct {
	Setup  string
	Schema string
	Values string
	Log    string
}

// DefaultFiles are the document names used by the node firmware.
var DefaultFiles = Files{
	Setup:  "/usrSetup.json",
	Schema: "/usrFunctions.json",
	Values: "/usrValues.json",
	Log:    "/usrLog.json",
}
