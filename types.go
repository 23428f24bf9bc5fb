package leadconsole

// LeadStatus is the follow-up state of a lead record. The backend is the
// authority; the client only offers the known set for selection.
type LeadStatus string

const (
	// StatusReceived marks a lead that answered the call.
	StatusReceived LeadStatus = "received"
	// StatusNotReceived marks a lead that did not answer.
	StatusNotReceived LeadStatus = "not_received"
	// StatusSwitchOff marks a lead whose phone was off.
	StatusSwitchOff LeadStatus = "switch_off"
	// StatusCallback marks a lead that asked to be called back.
	StatusCallback LeadStatus = "callback"
	// StatusRequired marks a lead flagged as interested.
	StatusRequired LeadStatus = "required"
	// StatusNotRequired marks a lead flagged as not interested.
	StatusNotRequired LeadStatus = "not_required"
)

// LeadStatuses returns the selectable statuses in display order.
func LeadStatuses() []LeadStatus {
	return []LeadStatus{
		StatusReceived,
		StatusNotReceived,
		StatusSwitchOff,
		StatusCallback,
		StatusRequired,
		StatusNotRequired,
	}
}

// Valid reports whether s is one of the known statuses. The empty status is
// not valid; "unset" is represented by omitting the field.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusNotReceived, StatusSwitchOff,
		StatusCallback, StatusRequired, StatusNotRequired:
		return true
	}
	return false
}

// Lead is a single row of the dashboard table. The backend owns the record;
// the client holds a transient page of these for display and editing.
type Lead struct {
	ID               string     `json:"_id,omitempty"`
	CompanyName      string     `json:"companyName"`
	ContactNumber    string     `json:"contactNumber"`
	Address          string     `json:"address"`
	Status           LeadStatus `json:"status,omitempty"`
	FollowUpDateTime string     `json:"followUpDateTime,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// LeadPatch is a partial update for PUT /users/:id. Nil fields are omitted,
// so an inline status change sends only the status.
type LeadPatch struct {
	CompanyName      *string     `json:"companyName,omitempty"`
	ContactNumber    *string     `json:"contactNumber,omitempty"`
	Address          *string     `json:"address,omitempty"`
	Status           *LeadStatus `json:"status,omitempty"`
	FollowUpDateTime *string     `json:"followUpDateTime,omitempty"`
	Notes            *string     `json:"notes,omitempty"`
}

// LeadPage is one page of the dashboard listing.
type LeadPage struct {
	Leads []Lead `json:"users"`
	Pages int    `json:"pages"`
}

// ListLeadsParams are the query parameters of GET /users. Zero values are
// sent as-is: the backend treats an empty search/status as "no filter" and
// page 0 as the first page.
type ListLeadsParams struct {
	Page   int
	Search string
	Status LeadStatus
}

// Account is the authenticated operator's profile.
type Account struct {
	ID           string `json:"_id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// FailedRow is one rejected spreadsheet row from a bulk upload. Data maps the
// original column names to the raw uploaded values.
type FailedRow struct {
	RowNumber int            `json:"rowNumber"`
	Reason    string         `json:"reason"`
	Data      map[string]any `json:"data"`
}

// BulkUploadResult is the per-row reconciliation of a bulk upload. It is
// created fresh per submission and discarded when the importer closes or a
// new file is selected.
type BulkUploadResult struct {
	SuccessCount int         `json:"successCount"`
	FailedCount  int         `json:"failedCount"`
	FailedRows   []FailedRow `json:"failedRows"`
}
