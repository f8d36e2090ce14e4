package mail

type LeadAssignedEmailData struct {
	AdvisorName string
	LeadName    string
}

type SLAAlertEmailData struct {
	LeadName string
	Window   string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
