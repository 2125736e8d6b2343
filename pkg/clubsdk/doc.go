// Package clubsdk holds the wire types of the clubhouse API and a small
// client for it.
//
// A Client behaves like a browser: it keeps the admin and member session
// cookies it is given and sends them back on later calls.
//
//	c := clubsdk.NewClient("http://localhost:8080")
//	created, err := c.SubmitApplication(ctx, clubsdk.ApplicationRequest{
//		Name:         "Ada Lovelace",
//		Email:        "ada@example.com",
//		SponsorEmail: "grace@example.com",
//	})
//	if err != nil {
//		var apiErr *clubsdk.APIError
//		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
//			// already pending with this sponsor
//		}
//	}
//	_, err = c.ApproveApplication(ctx, created.Token, code)
//
// Non-2xx responses are returned as *APIError carrying the status, the
// envelope message and any per-field validation errors.
package clubsdk
