package leadconsole

import (
	"context"
	"net/url"
	"strconv"
)

// ListLeads fetches one page of leads. Page numbers start at 1; zero and
// negative values are treated as the first page. Search and status filters
// are passed through as-is, the backend owns their semantics.
func (c *Console) ListLeads(ctx context.Context, params ListLeadsParams) (*LeadPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}

	var resp LeadPage
	if err := c.gw.getJSON(ctx, "/users", query, &resp); err != nil {
		return nil, err
	}
	if resp.Pages < 1 {
		resp.Pages = 1
	}
	return &resp, nil
}

// CreateLead submits a new lead after form validation.
func (c *Console) CreateLead(ctx context.Context, lead Lead) error {
	if err := ValidateLead(lead); err != nil {
		return err
	}
	lead.ID = ""
	return c.gw.postJSON(ctx, "/users", lead, nil)
}

// UpdateLead applies a partial update to the lead with the given id. Only
// the fields set on patch are sent; the backend keeps the rest.
func (c *Console) UpdateLead(ctx context.Context, id string, patch LeadPatch) error {
	if id == "" {
		return FieldErrors{"id": "Lead id is required"}
	}
	if patch.ContactNumber != nil || patch.Status != nil || patch.FollowUpDateTime != nil {
		probe := Lead{ContactNumber: "0000000000"}
		if patch.ContactNumber != nil {
			probe.ContactNumber = *patch.ContactNumber
		}
		if patch.Status != nil {
			probe.Status = *patch.Status
		}
		if patch.FollowUpDateTime != nil {
			probe.FollowUpDateTime = *patch.FollowUpDateTime
		}
		if err := ValidateLead(probe); err != nil {
			return err
		}
	}
	return c.gw.putJSON(ctx, joinPath("users", url.PathEscape(id)), patch, nil)
}

// UpdateLeadStatus is the inline status-dropdown edit: a one-field patch.
func (c *Console) UpdateLeadStatus(ctx context.Context, id string, status LeadStatus) error {
	if !status.Valid() {
		return FieldErrors{"status": "Unknown status"}
	}
	return c.UpdateLead(ctx, id, LeadPatch{Status: &status})
}

// DeleteLead removes the lead with the given id.
func (c *Console) DeleteLead(ctx context.Context, id string) error {
	if id == "" {
		return FieldErrors{"id": "Lead id is required"}
	}
	return c.gw.deleteJSON(ctx, joinPath("users", url.PathEscape(id)))
}
