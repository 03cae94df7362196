package service

import (
	"strings"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// Inline messages shown by the order form
const (
	MsgMissingContext     = "Missing user or provider data."
	MsgMissingFile        = "Please upload a 3D model file."
	MsgMissingIdea        = "Please describe your idea."
	MsgQuantityLimited    = "This provider does not accept multiple-quantity orders. Quantity is limited to 1."
	MsgMaterialNotOffered = "This provider does not print with the selected material."
	MsgSubmitFailed       = "An error occurred while sending the order. Please try again."
)

// OrderForm holds the state of a print request being filled in for one
// provider. Validation failures are reported through Error, the way the
// form shows them inline.
type OrderForm struct {
	provider *models.Provider

	open       bool
	hasFile    bool
	fileName   string
	idea       string
	material   models.Material
	quantity   int
	notes      string
	err        string
	submitting bool
}

// NewOrderForm opens a fresh form for provider
func NewOrderForm(provider *models.Provider) *OrderForm {
	f := &OrderForm{provider: provider}
	f.Open()
	return f
}

// Open resets every field and shows the form
func (f *OrderForm) Open() {
	f.open = true
	f.hasFile = true
	f.fileName = ""
	f.idea = ""
	f.quantity = 1
	f.notes = ""
	f.err = ""
	f.submitting = false

	f.material = models.DefaultMaterial
	if f.provider != nil {
		f.material = f.provider.DefaultMaterial()
	}
}

// Close hides the form
func (f *OrderForm) Close() {
	f.open = false
}

func (f *OrderForm) IsOpen() bool { return f.open }
func (f *OrderForm) IsSubmitting() bool { return f.submitting }
func (f *OrderForm) HasFile() bool { return f.hasFile }
func (f *OrderForm) Quantity() int { return f.quantity }
func (f *OrderForm) Material() models.Material { return f.material }
func (f *OrderForm) Error() string { return f.err }
func (f *OrderForm) Provider() *models.Provider { return f.provider }

// SetHasFile switches between the "I have a 3D file" and "I have an idea" modes
func (f *OrderForm) SetHasFile(hasFile bool) {
	f.hasFile = hasFile
}

// SetFile records the chosen model file. An empty name means nothing was picked.
func (f *OrderForm) SetFile(name string) {
	if name == "" {
		return
	}
	f.fileName = name
	f.err = ""
}

// SetIdea records the idea description
func (f *OrderForm) SetIdea(text string) {
	f.idea = text
	f.err = ""
}

// SetMaterial selects the material
func (f *OrderForm) SetMaterial(material models.Material) {
	f.material = material
}

// SetNotes records free-form notes for the provider
func (f *OrderForm) SetNotes(notes string) {
	f.notes = notes
}

// SetQuantity applies the quantity rules. Private accounts only take
// single-piece orders: asking for more resets the quantity to 1, sets the
// limit error and returns false.
func (f *OrderForm) SetQuantity(n int) bool {
	if n > 1 && (f.provider == nil || !f.provider.IsBusiness) {
		f.err = MsgQuantityLimited
		f.quantity = 1
		return false
	}

	f.err = ""
	f.quantity = max(1, n)
	return true
}

// Validate checks the form for user and returns the payload to submit.
// On failure the inline error is set and an invalid-input error returned.
func (f *OrderForm) Validate(user *models.User) (*models.NewOrderPayload, error) {
	switch {
	case f.provider == nil || user == nil:
		return nil, f.fail(MsgMissingContext)
	case f.hasFile && f.fileName == "":
		return nil, f.fail(MsgMissingFile)
	case !f.hasFile && strings.TrimSpace(f.idea) == "":
		return nil, f.fail(MsgMissingIdea)
	case len(f.provider.Materials) > 0 && !f.provider.Offers(f.material):
		return nil, f.fail(MsgMaterialNotOffered)
	}

	payload := &models.NewOrderPayload{
		ProviderID: f.provider.ID,
		Material:   f.material,
		Quantity:   f.quantity,
		Notes:      f.notes,
	}
	if f.hasFile {
		name := f.fileName
		payload.FileName = &name
	} else {
		idea := f.idea
		payload.IdeaDescription = &idea
	}

	return payload, nil
}

func (f *OrderForm) fail(message string) error {
	f.err = message
	return models.ErrInvalidInput(message)
}
