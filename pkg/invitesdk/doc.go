/*
Package invitesdk is a client for the tenancy invitation service.

SDKClient covers the public endpoints a prospective tenant hits before they
have an account. Session wraps a bearer token issued by the platform's
identity service and covers the landlord and tenant endpoints:

	client := invitesdk.NewSDKClient("https://invites.example.com")

	// Landlord side
	landlord := client.NewSession(landlordToken)
	property, err := landlord.CreateProperty(ctx, invitesdk.CreatePropertyRequest{Name: "12 Rose St"})
	sent, err := landlord.SendInvitation(ctx, invitesdk.SendInvitationRequest{
		Email:      "tenant@example.com",
		PropertyID: property.ID,
	})

	// Tenant side, with the code from the email
	info, err := client.ValidateCode(ctx, code, "tenant@example.com")
	reg, err := client.Register(ctx, invitesdk.RegisterRequest{...})

Failed calls return *APIError. Its Code is the machine-readable error string
from the response body, for example CodeExpiredCode.
*/
package invitesdk
