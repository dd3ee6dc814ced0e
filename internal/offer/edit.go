package offer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lllllllleong/commercialoffer/internal/models"
)

// ErrMalformedPath is returned when a form identifier does not address an editable text field.
var ErrMalformedPath = errors.New("malformed field path")

// Edit is one typed change to an offer document.
// Apply must not modify doc; it returns a new document that shares every section it did not touch.
type Edit interface {
	Apply(doc *models.OfferDocument) *models.OfferDocument
}

// HeaderField addresses a text field stored directly on the document.
type HeaderField int

const (
	OfferNumber HeaderField = iota + 1
	IssueDate
	ValidUntil
	Introduction
	Notes
)

type SetHeader struct {
	Field HeaderField
	Value string
}

func (e SetHeader) Apply(doc *models.OfferDocument) *models.OfferDocument {
	next := *doc
	switch e.Field {
	case OfferNumber:
		next.OfferNumber = e.Value
	case IssueDate:
		next.Date = e.Value
	case ValidUntil:
		next.ValidUntil = e.Value
	case Introduction:
		next.Introduction = e.Value
	case Notes:
		next.Notes = e.Value
	default:
		panic(fmt.Sprintf("offer: unknown header field %d", e.Field))
	}
	return &next
}

type SenderField int

const (
	SenderName SenderField = iota + 1
	SenderAddress
	SenderEmail
)

type SetSender struct {
	Field SenderField
	Value string
}

func (e SetSender) Apply(doc *models.OfferDocument) *models.OfferDocument {
	from := *doc.From
	switch e.Field {
	case SenderName:
		from.Name = e.Value
	case SenderAddress:
		from.Address = e.Value
	case SenderEmail:
		from.Email = e.Value
	default:
		panic(fmt.Sprintf("offer: unknown sender field %d", e.Field))
	}
	next := *doc
	next.From = &from
	return &next
}

type RecipientField int

const (
	RecipientName RecipientField = iota + 1
	RecipientCompany
	RecipientAddress
)

type SetRecipient struct {
	Field RecipientField
	Value string
}

func (e SetRecipient) Apply(doc *models.OfferDocument) *models.OfferDocument {
	to := *doc.To
	switch e.Field {
	case RecipientName:
		to.Name = e.Value
	case RecipientCompany:
		to.Company = e.Value
	case RecipientAddress:
		to.Address = e.Value
	default:
		panic(fmt.Sprintf("offer: unknown recipient field %d", e.Field))
	}
	next := *doc
	next.To = &to
	return &next
}

type FooterField int

const (
	FooterMission FooterField = iota + 1
	FooterTelegram
	FooterWhatsApp
)

type SetFooter struct {
	Field FooterField
	Value string
}

func (e SetFooter) Apply(doc *models.OfferDocument) *models.OfferDocument {
	footer := *doc.Footer
	switch e.Field {
	case FooterMission:
		footer.Mission = e.Value
	case FooterTelegram:
		footer.Telegram = e.Value
	case FooterWhatsApp:
		footer.WhatsApp = e.Value
	default:
		panic(fmt.Sprintf("offer: unknown footer field %d", e.Field))
	}
	next := *doc
	next.Footer = &footer
	return &next
}

type ContactField int

const (
	ContactPhone1 ContactField = iota + 1
	ContactPhone2
	ContactEmail
	ContactWebsite
	ContactAddress
)

// SetContact edits footer.contact; it rebuilds both the footer and its contact block.
type SetContact struct {
	Field ContactField
	Value string
}

func (e SetContact) Apply(doc *models.OfferDocument) *models.OfferDocument {
	contact := *doc.Footer.Contact
	switch e.Field {
	case ContactPhone1:
		contact.Phone1 = e.Value
	case ContactPhone2:
		contact.Phone2 = e.Value
	case ContactEmail:
		contact.Email = e.Value
	case ContactWebsite:
		contact.Website = e.Value
	case ContactAddress:
		contact.Address = e.Value
	default:
		panic(fmt.Sprintf("offer: unknown contact field %d", e.Field))
	}
	footer := *doc.Footer
	footer.Contact = &contact
	next := *doc
	next.Footer = &footer
	return &next
}

var fieldPaths = map[string]func(string) Edit{
	"offerNumber":  func(v string) Edit { return SetHeader{OfferNumber, v} },
	"date":         func(v string) Edit { return SetHeader{IssueDate, v} },
	"validUntil":   func(v string) Edit { return SetHeader{ValidUntil, v} },
	"introduction": func(v string) Edit { return SetHeader{Introduction, v} },
	"notes":        func(v string) Edit { return SetHeader{Notes, v} },

	"from.name":    func(v string) Edit { return SetSender{SenderName, v} },
	"from.address": func(v string) Edit { return SetSender{SenderAddress, v} },
	"from.email":   func(v string) Edit { return SetSender{SenderEmail, v} },

	"to.name":    func(v string) Edit { return SetRecipient{RecipientName, v} },
	"to.company": func(v string) Edit { return SetRecipient{RecipientCompany, v} },
	"to.address": func(v string) Edit { return SetRecipient{RecipientAddress, v} },

	"footer.mission":  func(v string) Edit { return SetFooter{FooterMission, v} },
	"footer.telegram": func(v string) Edit { return SetFooter{FooterTelegram, v} },
	"footer.whatsapp": func(v string) Edit { return SetFooter{FooterWhatsApp, v} },

	"footer.contact.phone1":  func(v string) Edit { return SetContact{ContactPhone1, v} },
	"footer.contact.phone2":  func(v string) Edit { return SetContact{ContactPhone2, v} },
	"footer.contact.email":   func(v string) Edit { return SetContact{ContactEmail, v} },
	"footer.contact.website": func(v string) Edit { return SetContact{ContactWebsite, v} },
	"footer.contact.address": func(v string) Edit { return SetContact{ContactAddress, v} },
}

var editableSections = map[string]bool{"from": true, "to": true, "footer": true}

// ParseEdit maps a form identifier such as "to.name" or "footer.contact.phone1" to its typed edit.
// Items, discounts and media have dedicated store operations and are not addressable here.
func ParseEdit(path, value string) (Edit, error) {
	segments := strings.Split(path, ".")
	if path == "" || len(segments) > 3 {
		return nil, fmt.Errorf("%w: %q has %d segments", ErrMalformedPath, path, len(segments))
	}
	if build, ok := fieldPaths[path]; ok {
		return build(value), nil
	}
	if len(segments) > 1 && !editableSections[segments[0]] {
		return nil, fmt.Errorf("%w: unknown section %q", ErrMalformedPath, segments[0])
	}
	return nil, fmt.Errorf("%w: unknown field %q", ErrMalformedPath, path)
}
