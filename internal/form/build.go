package form

import (
	"github.com/nao1215/portalpass/internal/extract"
	"github.com/nao1215/portalpass/internal/session"
)

// ConsentFields are input names treated as "I accept" checkboxes.
var ConsentFields = []string{"terms", "accept", "agree", "policy", "aup"}

// Identity field aliases, lowercase, in preference order.
var (
	EmailAliases   = []string{"email", "mail"}
	NameAliases    = []string{"name", "fullname", "full_name"}
	CompanyAliases = []string{"company", "org", "organization"}
)

// Plan is a form submission ready to send.
type Plan struct {
	// Action is the absolute URL the form is posted to.
	Action string

	// Data is the form body.
	Data PostData
}

// Build derives a Plan from a portal page fetched from pageURL.
//
// Pairs are added in this order: hidden inputs as they appear, one
// name=on per consent field present, then the identity fields the page
// asks for and the operator configured.
func Build(page, pageURL string, id session.Identity) Plan {
	base, _ := extract.BaseHref(page)
	plan := Plan{
		Action: extract.ResolveAction(extract.FormAction(page), base, pageURL),
	}

	for _, f := range extract.HiddenInputs(page) {
		plan.Data.Add(f.Name, escapeHidden(f.Value))
	}

	names := extract.InputNames(page)
	for _, c := range ConsentFields {
		if name, ok := names[c]; ok {
			plan.Data.Add(name, "on")
		}
	}

	addIdentity(&plan.Data, names, EmailAliases, id.Email)
	addIdentity(&plan.Data, names, NameAliases, id.FullName)
	addIdentity(&plan.Data, names, CompanyAliases, id.Company)

	return plan
}

// addIdentity adds value under the first alias the page has an input for.
func addIdentity(d *PostData, names map[string]string, aliases []string, value string) {
	if value == "" {
		return
	}
	for _, a := range aliases {
		if name, ok := names[a]; ok {
			d.Add(name, escapeIdentity(value))
			return
		}
	}
}
