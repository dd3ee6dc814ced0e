package models

// These structs define the JSON payloads exchanged by the offer editor HTTP API.

// FieldPatchRequest edits a document field addressed by its form identifier, e.g. "footer.contact.phone1".
type FieldPatchRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// ItemPatchRequest edits one field of a line item: "description" or "prices.<tier>".
type ItemPatchRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ItemCreatedResponse struct {
	ID int64 `json:"id"`
}

// ValueRequest carries a single raw value, used by discount and contract date edits.
type ValueRequest struct {
	Value string `json:"value"`
}

type DiscountResponse struct {
	Applied bool `json:"applied"`
}

// PhotoUploadResponse reports the outcome of a photo batch. Failed files are listed by name.
type PhotoUploadResponse struct {
	Added     int               `json:"added"`
	Failed    map[string]string `json:"failed,omitempty"`
	Remaining int               `json:"remaining"`
}

type GenerateIntroResponse struct {
	Status       string `json:"status"`
	Introduction string `json:"introduction"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Remaining *int   `json:"remaining,omitempty"`
}
