// Package authsdk is the client-side session core for the James Company QA
// portal. It owns the full authentication lifecycle on the client: durable
// token storage, bearer attachment with a single refresh-and-retry on 401,
// credential and OAuth exchanges against the auth gateway, the session state
// consumed by every UI surface, and the protected-route decision function.
//
// The pieces compose around an Auth value:
//
//	auth := authsdk.New(authsdk.Config{
//		BaseURL: "https://portal.jamescompany.kr/api",
//		Tokens:  tokens, // e.g. authsdk.NewFileTokenStore(path)
//	})
//
//	user, err := auth.Login(ctx, email, password)
//	...
//	resp, err := auth.HTTPClient().Get(apiURL) // bearer + auto refresh
//
// Session state is read through auth.Session(); route gating goes through
// Decide, which never touches the network.
package authsdk
