package models

// TrialStatus tracks a trial lesson through the conversion funnel.
type TrialStatus string

const (
	TrialStatusPending     TrialStatus = "Pending"
	TrialStatusPresent     TrialStatus = "Present"
	TrialStatusAbsent      TrialStatus = "Absent"
	TrialStatusRescheduled TrialStatus = "Rescheduled"
)

// Valid returns true when the status is a supported value.
func (s TrialStatus) Valid() bool {
	switch s {
	case TrialStatusPending, TrialStatusPresent, TrialStatusAbsent, TrialStatusRescheduled:
		return true
	default:
		return false
	}
}

// TrialLesson (aula experimental) is a prospect's one-off session.
type TrialLesson struct {
	ID             string      `json:"id"`
	StudentName    string      `json:"student_name"`
	Unit           string      `json:"unit"`
	Course         string      `json:"course"`
	ScheduledDate  string      `json:"scheduled_date,omitempty"`
	Guardian       string      `json:"guardian,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	Email          string      `json:"email,omitempty"`
	Status         TrialStatus `json:"status"`
	TeacherNote    string      `json:"teacher_note,omitempty"`
	FollowUpSent   bool        `json:"follow_up_sent"`
	ReminderSent   bool        `json:"reminder_sent"`
	RescheduleSent bool        `json:"reschedule_sent"`
	Converted      bool        `json:"converted"`
}

// TrialNotice selects which outreach flag a trial message sets.
type TrialNotice string

const (
	TrialNoticeReminder   TrialNotice = "reminder"
	TrialNoticeFollowUp   TrialNotice = "follow_up"
	TrialNoticeReschedule TrialNotice = "reschedule"
)

// TrialLessonFilter scopes trial lesson listings.
type TrialLessonFilter struct {
	Unit     string
	Status   TrialStatus
	DateFrom string
	DateTo   string
}
