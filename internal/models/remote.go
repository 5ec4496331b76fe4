package models

// Row is an untyped spreadsheet row keyed by column header.
type Row map[string]interface{}

// RemotePayload is the body returned by the spreadsheet script on read.
type RemotePayload struct {
	Base         []Row `json:"base"`
	Classes      []Row `json:"turmas"`
	Attendance   []Row `json:"frequencia"`
	TrialLessons []Row `json:"experimental"`
	Users        []Row `json:"usuarios"`
}

// RemoteAction names a write supported by the spreadsheet script.
type RemoteAction string

const (
	RemoteActionSaveAttendance  RemoteAction = "save_frequencia"
	RemoteActionSaveTrialLesson RemoteAction = "save_experimental"
)

// RemotePush is the body posted to the spreadsheet script.
type RemotePush struct {
	Action RemoteAction `json:"action"`
	Data   interface{}  `json:"data"`
}
