package portal

import "time"

// UserInfo holds the best-effort student identification scraped after
// login. Any field may be empty.
type UserInfo struct {
	Name         string `json:"nome,omitempty"`
	Registration string `json:"matricula,omitempty"`
	Program      string `json:"curso,omitempty"`
}

// Empty reports whether nothing was scraped.
func (u UserInfo) Empty() bool {
	return u.Name == "" && u.Registration == "" && u.Program == ""
}

// LoginResult is the structured outcome of a login attempt. Domain
// failures are reported through Error, never as a Go error.
type LoginResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
	LoggedIn bool     `json:"logged_in"`
	UserInfo UserInfo `json:"user_info,omitempty"`
}

// LogoutResult is the structured outcome of a logout attempt.
type LogoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusResult is a pure read of the session state. It never fails.
type StatusResult struct {
	Success     bool     `json:"success"`
	LoggedIn    bool     `json:"logged_in"`
	UserInfo    UserInfo `json:"user_info,omitempty"`
	AgentActive bool     `json:"agent_active"`
	CurrentURL  string   `json:"current_url,omitempty"`
	OnPortal    bool     `json:"on_sigaa,omitempty"`
}

// DocumentRequest identifies one document to retrieve. Immutable,
// constructed per call.
type DocumentRequest struct {
	DocumentType string
	Format       string // default "pdf"
	Semester     string // optional, e.g. "2024.1"
}

// DownloadResult is produced once per DocumentRequest; there is no
// automatic retry.
type DownloadResult struct {
	Success      bool   `json:"success"`
	DocumentType string `json:"document_type"`
	FilePath     string `json:"file_path,omitempty"`
	Filename     string `json:"filename,omitempty"`
	TextContent  string `json:"text_content,omitempty"`
	Error        string `json:"error,omitempty"`
}

// NavigationResult reports a section navigation.
type NavigationResult struct {
	Success    bool   `json:"success"`
	Section    string `json:"section"`
	Message    string `json:"message,omitempty"`
	CurrentURL string `json:"current_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ExtractionResult carries structured data pulled from the current page.
type ExtractionResult struct {
	Success bool        `json:"success"`
	Type    string      `json:"type,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TaskResult reports a custom agent-driven task.
type TaskResult struct {
	Success       bool        `json:"success"`
	Task          string      `json:"task"`
	Steps         []TaskStep  `json:"steps,omitempty"`
	ExtractedData interface{} `json:"extracted_data,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// TaskStep records one action the task loop performed.
type TaskStep struct {
	Action   string `json:"action"`
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
	URL      string `json:"url,omitempty"`
}

// NotificationsResult lists scraped portal announcements.
type NotificationsResult struct {
	Success       bool     `json:"success"`
	Notifications []string `json:"notifications,omitempty"`
	Count         int      `json:"count"`
	Error         string   `json:"error,omitempty"`
}

// ClassMeeting is one scheduled class occurrence.
type ClassMeeting struct {
	Course    string `json:"disciplina"`
	Day       string `json:"dia"`
	Time      string `json:"horario"`
	Professor string `json:"professor,omitempty"`
	Room      string `json:"sala,omitempty"`
}

// Schedule is the student's weekly timetable.
type Schedule struct {
	Classes []ClassMeeting `json:"classes"`
}

// ScheduleResult reports the class schedule extraction.
type ScheduleResult struct {
	Success  bool      `json:"success"`
	Schedule *Schedule `json:"schedule,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Grade is one course result as shown on the grades screen.
type Grade struct {
	Course    string `json:"disciplina"`
	FinalMark string `json:"nota_final,omitempty"`
	Situation string `json:"situacao"`
	Semester  string `json:"periodo"`
}

// Subject is one transcript row.
type Subject struct {
	Code      string `json:"codigo"`
	Name      string `json:"nome"`
	Credits   int    `json:"creditos"`
	Mark      string `json:"nota,omitempty"`
	Situation string `json:"situacao"`
	Semester  string `json:"periodo"`
}

// Semester is a parsed academic period such as "2024.1".
type Semester struct {
	Year   int    `json:"year,omitempty"`
	Period int    `json:"period,omitempty"`
	Full   string `json:"full"`
}

// fileClock abstracts time.Now for download-recency tests.
type fileClock func() time.Time
