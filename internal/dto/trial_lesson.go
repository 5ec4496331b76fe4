package dto

// UpdateTrialLessonRequest patches a trial lesson. Nil fields are left unchanged.
type UpdateTrialLessonRequest struct {
	Status         *string `json:"status" validate:"omitempty,oneof=Pending Present Absent Rescheduled"`
	TeacherNote    *string `json:"teacher_note" validate:"omitempty,max=2000"`
	FollowUpSent   *bool   `json:"follow_up_sent"`
	ReminderSent   *bool   `json:"reminder_sent"`
	RescheduleSent *bool   `json:"reschedule_sent"`
	Converted      *bool   `json:"converted"`
}

// NotifyTrialLessonRequest selects which message goes to the guardian.
type NotifyTrialLessonRequest struct {
	Kind string `json:"kind" validate:"required,oneof=reminder follow_up reschedule"`
}
