package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/naveenspark/bidboard/internal/form"
	"github.com/naveenspark/bidboard/internal/identity"
	"github.com/naveenspark/bidboard/pkg/client"
	"github.com/naveenspark/bidboard/pkg/domain"
)

// IdentityFunc runs a third-party sign-in started by role.
type IdentityFunc func(ctx context.Context, provider string, role domain.UserType) identity.Result

// parseID reads a positive integer ID from a form value.
func parseID(label, v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", label)
	}
	return id, nil
}

func dispatch(c *client.Client, build func(f form.Form) (client.Request, error)) func(context.Context, form.Form) client.Result {
	return func(ctx context.Context, f form.Form) client.Result {
		req, err := build(f)
		if err != nil {
			return failed(err)
		}
		return c.Dispatch(ctx, req)
	}
}

func fixed(c *client.Client, req client.Request) func(context.Context, form.Form) client.Result {
	return dispatch(c, func(form.Form) (client.Request, error) { return req, nil })
}

func credentials() form.Form {
	return form.New("credentials", form.Text("email", "email"), form.Password("password", "password"))
}

func authActions(c *client.Client, signIn IdentityFunc) []action {
	acts := []action{
		{
			title: "Client signup",
			role:  domain.UserTypeClient,
			form:  credentials(),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				return client.SignupRequest(domain.UserTypeClient, f.Values()), nil
			}),
			done: "Client signup successful!",
		},
		{
			title: "Client login",
			role:  domain.UserTypeClient,
			form:  credentials(),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				return client.LoginRequest(domain.UserTypeClient, f.Values()), nil
			}),
			login: domain.UserTypeClient,
			done:  "Client login successful!",
		},
		{
			title: "Provider signup",
			role:  domain.UserTypeServiceProvider,
			form:  credentials(),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				return client.SignupRequest(domain.UserTypeServiceProvider, f.ProviderValues()), nil
			}),
			done: "Service Provider signup successful!",
		},
		{
			title: "Provider login",
			role:  domain.UserTypeServiceProvider,
			form:  credentials(),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				return client.LoginRequest(domain.UserTypeServiceProvider, f.ProviderValues()), nil
			}),
			login: domain.UserTypeServiceProvider,
			done:  "Service Provider login successful!",
		},
	}
	for _, provider := range []string{client.ProviderGoogle, client.ProviderMicrosoft} {
		for _, role := range []domain.UserType{domain.UserTypeClient, domain.UserTypeServiceProvider} {
			acts = append(acts, identityAction(c, signIn, provider, role))
		}
	}
	return acts
}

func providerName(provider string) string {
	if provider == client.ProviderMicrosoft {
		return "Microsoft"
	}
	return "Google"
}

// identityAction signs in with provider and forwards the credential to the
// login route for role. The role rides along in the task and its result.
func identityAction(c *client.Client, signIn IdentityFunc, provider string, role domain.UserType) action {
	name := providerName(provider)
	return action{
		title: name + " sign-in",
		role:  role,
		run: func(ctx context.Context, _ form.Form) client.Result {
			if signIn == nil {
				return failed(fmt.Errorf("%s sign-in is not available", name))
			}
			res := signIn(ctx, provider, role)
			if res.Err != nil {
				return failed(res.Err)
			}
			return c.Dispatch(ctx, client.IdentityLoginRequest(res.Provider, res.Role, res.Credential))
		},
		login: role,
		done:  name + " login successful!",
	}
}

func sectionAction(c *client.Client, s client.ProfileSection, fields ...form.Field) action {
	return action{
		title: strings.ToUpper(s.Name[:1]) + s.Name[1:],
		role:  s.Role,
		form:  form.New(s.Name, fields...),
		run: dispatch(c, func(f form.Form) (client.Request, error) {
			return client.SectionRequest(s, f.Values()), nil
		}),
		done: s.Name + " saved",
	}
}

func profileAction(c *client.Client, role domain.UserType) action {
	return action{
		title:  "Get profile",
		role:   role,
		run:    fixed(c, client.ProfileRequest(role)),
		done:   "Profile loaded",
		render: renderProfile,
	}
}

func clientActions(c *client.Client) []action {
	return []action{
		profileAction(c, domain.UserTypeClient),
		sectionAction(c, client.SectionPersonalDetails,
			form.Text("name", "full name"),
			form.Text("profile_photo", "photo URL"),
			form.Text("location_country", "country"),
			form.Text("location_city", "city"),
			form.Text("language", "languages"),
			form.Multiline("bio", "bio"),
		),
		sectionAction(c, client.SectionCompanyInfo,
			form.Text("company_name", "company"),
			form.Text("company_size", "size"),
			form.Text("industry", "industry"),
			form.Text("website", "website"),
		),
		sectionAction(c, client.SectionContactPreferences,
			form.Text("preferred_contact_method", "preferred method"),
			form.Text("contact_email", "email"),
			form.Text("contact_phone", "phone"),
			form.Text("timezone", "timezone"),
			form.Multiline("notes", "notes"),
		),
		sectionAction(c, client.SectionBillingInfo,
			form.Text("billing_name", "billing name"),
			form.Text("tax_gst_number", "tax / GST number"),
			form.Text("billing_contact_email", "billing email"),
			form.Text("billing_contact_phone", "billing phone"),
			form.Multiline("billing_address", "address"),
		),
	}
}

func providerActions(c *client.Client) []action {
	return []action{
		profileAction(c, domain.UserTypeServiceProvider),
		sectionAction(c, client.SectionProfessionalInfo,
			form.Text("name", "full name"),
			form.Text("professional_title", "title"),
			form.Text("availability", "availability"),
			form.Text("hourly_rate", "hourly rate"),
			form.Text("skills", "skills"),
		),
		sectionAction(c, client.SectionPortfolio,
			form.Text("title", "title"),
			form.Text("project_url", "project URL"),
			form.Multiline("description", "description"),
			form.Text("image_url", "image URL"),
		),
		sectionAction(c, client.SectionExperience,
			form.Text("role", "role"),
			form.Text("company", "company"),
			form.Text("start_date", "start date"),
			form.Text("end_date", "end date"),
			form.Text("currently_working", "currently working (true/false)"),
			form.Multiline("summary", "summary"),
		),
		sectionAction(c, client.SectionEducation,
			form.Text("school", "school"),
			form.Text("degree", "degree"),
			form.Text("field_of_study", "field of study"),
			form.Text("start_year", "start year"),
			form.Text("end_year", "end year"),
			form.Multiline("highlights", "highlights"),
		),
		sectionAction(c, client.SectionCertification,
			form.Text("name", "name"),
			form.Text("issuer", "issuer"),
			form.Text("year", "year"),
			form.Text("certificate_link", "link"),
		),
		sectionAction(c, client.SectionKYC,
			form.Text("file_path", "document path"),
		),
	}
}

func projectActions(c *client.Client) []action {
	return []action{
		{
			title: "Create project",
			role:  domain.UserTypeClient,
			form: form.New("project",
				form.Text("title", "title"),
				form.Multiline("description", "description"),
				form.Text("budget_range", "budget range"),
				form.Text("currency", "currency"),
				form.Text("project_duration", "duration"),
				form.Text("skills_required", "skills (comma separated)"),
			),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				return client.CreateProjectRequest(f.Values()), nil
			}),
			done:   "Project created successfully!",
			render: renderProjects,
		},
		{
			title:  "My projects",
			role:   domain.UserTypeClient,
			run:    fixed(c, client.MyProjectsRequest()),
			done:   "Projects list updated",
			render: renderProjects,
		},
		{
			title: "Project details",
			role:  domain.UserTypeClient,
			form:  form.New("project", form.Text("project_id", "project ID")),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				id, err := parseID("project ID", f.Get("project_id"))
				return client.ProjectRequest(id), err
			}),
			render: renderProjects,
		},
		{
			title: "Delete project",
			role:  domain.UserTypeClient,
			form:  form.New("project", form.Text("project_id", "project ID")),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				id, err := parseID("project ID", f.Get("project_id"))
				return client.DeleteProjectRequest(id), err
			}),
			done: "Project deleted",
		},
		{
			title:  "Browse projects",
			role:   domain.UserTypeServiceProvider,
			run:    fixed(c, client.BrowseProjectsRequest()),
			done:   "Projects loaded",
			render: renderProjects,
		},
	}
}

func bidActions(c *client.Client) []action {
	return []action{
		{
			title:  "My bids",
			role:   domain.UserTypeServiceProvider,
			run:    fixed(c, client.MyBidsRequest()),
			done:   "Bids list updated",
			render: renderBids,
		},
		{
			title: "Submit bid",
			role:  domain.UserTypeServiceProvider,
			form: form.New("bid",
				form.Text("project_id", "project ID"),
				form.Text("bid_amount", "amount"),
				form.Text("currency", "currency (USD)"),
				form.Multiline("cover_letter", "cover letter"),
			),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				id, err := parseID("project ID", f.Get("project_id"))
				if err != nil {
					return client.Request{}, err
				}
				in, err := client.ParseBidInput(f.Values())
				return client.SubmitBidRequest(id, in), err
			}),
			done:   "Bid submitted successfully!",
			render: renderBids,
		},
		{
			title: "Update bid",
			role:  domain.UserTypeServiceProvider,
			form: form.New("bid",
				form.Text("bid_id", "bid ID"),
				form.Text("bid_amount", "new amount"),
				form.Text("currency", "currency"),
				form.Multiline("cover_letter", "cover letter"),
			),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				id, err := parseID("bid ID", f.Get("bid_id"))
				if err != nil {
					return client.Request{}, err
				}
				u := client.BidUpdate{Currency: f.Get("currency"), CoverLetter: f.Get("cover_letter")}
				if v := strings.TrimSpace(f.Get("bid_amount")); v != "" {
					amount, err := strconv.ParseInt(v, 10, 64)
					if err != nil {
						return client.Request{}, fmt.Errorf("bid amount must be a whole number")
					}
					u.BidAmount = &amount
				}
				return client.UpdateBidRequest(id, u), nil
			}),
			done:   "Bid updated",
			render: renderBids,
		},
		{
			title: "Project bids",
			role:  domain.UserTypeClient,
			form:  form.New("project", form.Text("project_id", "project ID")),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				id, err := parseID("project ID", f.Get("project_id"))
				return client.ProjectBidsRequest(id), err
			}),
			render: renderBids,
		},
		{
			title: "Accept bid",
			role:  domain.UserTypeClient,
			form: form.New("accept",
				form.Text("project_id", "project ID"),
				form.Text("bid_id", "bid ID"),
			),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				pid, err := parseID("project ID", f.Get("project_id"))
				if err != nil {
					return client.Request{}, err
				}
				bid, err := parseID("bid ID", f.Get("bid_id"))
				return client.AcceptBidRequest(pid, bid), err
			}),
			done: "Bid accepted successfully!",
		},
	}
}

func contractActions(c *client.Client, staticURL string) []action {
	render := contractRenderer(staticURL)
	return []action{
		{
			title: "Create contract",
			role:  domain.UserTypeClient,
			form: form.New("contract",
				form.Text("project_id", "project ID"),
				form.Text("bid_id", "bid ID"),
				form.Multiline("terms_and_conditions", "terms"),
				form.File(client.SignatureField, "signature image"),
			),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				if _, err := parseID("project ID", f.Get("project_id")); err != nil {
					return client.Request{}, err
				}
				if _, err := parseID("bid ID", f.Get("bid_id")); err != nil {
					return client.Request{}, err
				}
				body, err := f.Multipart()
				if err != nil {
					return client.Request{}, err
				}
				return client.CreateContractRequest(body), nil
			}),
			done:   "Contract created and signed!",
			render: render,
		},
		{
			title:  "My contracts",
			role:   domain.UserTypeClient,
			run:    fixed(c, client.ContractsRequest(domain.UserTypeClient)),
			done:   "Contracts updated",
			render: render,
		},
		{
			title:  "Provider contracts",
			role:   domain.UserTypeServiceProvider,
			run:    fixed(c, client.ContractsRequest(domain.UserTypeServiceProvider)),
			done:   "Contracts updated",
			render: render,
		},
		{
			title: "Sign contract",
			role:  domain.UserTypeServiceProvider,
			form: form.New("sign",
				form.Text("contract_id", "contract ID"),
				form.File(client.SignatureField, "signature image"),
			),
			run: dispatch(c, func(f form.Form) (client.Request, error) {
				id, err := parseID("contract ID", f.Get("contract_id"))
				if err != nil {
					return client.Request{}, err
				}
				body, err := f.Only(client.SignatureField).Multipart()
				if err != nil {
					return client.Request{}, err
				}
				return client.SignContractRequest(id, body), nil
			}),
			done:   "Contract signed successfully!",
			render: render,
		},
	}
}
