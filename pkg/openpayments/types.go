package openpayments

// AccessType identifies the kind of resource a grant authorizes access to.
type AccessType string

const (
	AccessTypeIncomingPayment AccessType = "incoming-payment"
	AccessTypeQuote           AccessType = "quote"
	AccessTypeOutgoingPayment AccessType = "outgoing-payment"
)

// Amount is a fixed-point monetary amount. Value is a non-negative integer
// string interpreted at 10^-AssetScale units. It is never parsed into a
// float; the string travels end to end unchanged.
type Amount struct {
	Value      string `json:"value"`
	AssetCode  string `json:"assetCode"`
	AssetScale int    `json:"assetScale"`
}

// WalletAddress is the resolved descriptor of a wallet endpoint.
type WalletAddress struct {
	ID             string `json:"id"`
	PublicName     string `json:"publicName,omitempty"`
	AssetCode      string `json:"assetCode"`
	AssetScale     int    `json:"assetScale"`
	AuthServer     string `json:"authServer"`
	ResourceServer string `json:"resourceServer"`
}

// GrantLimits restricts what a grant's access token may be used for.
type GrantLimits struct {
	DebitAmount *Amount `json:"debitAmount,omitempty"`
}

// GrantRequest describes a single grant to request from an authorization server.
type GrantRequest struct {
	AccessType AccessType
	Actions    []string
	Limits     *GrantLimits
	// Identifier is the wallet address the grant acts on behalf of.
	Identifier string
	// InteractionRequested asks the authorization server for a redirect-based
	// interaction. Required for outgoing-payment grants.
	InteractionRequested bool
}

// GrantResult is the outcome of a grant request or continuation. Exactly one
// of the two variants is populated: a finalized grant carries AccessToken, a
// pending grant carries the continuation handle and redirect URL.
type GrantResult struct {
	AccessToken string `json:"accessToken,omitempty"`
	ManageURL   string `json:"manageUrl,omitempty"`

	ContinueURI         string `json:"continueUri,omitempty"`
	ContinueAccessToken string `json:"continueAccessToken,omitempty"`
	RedirectURL         string `json:"redirectUrl,omitempty"`
}

// Finalized reports whether the grant is usable immediately.
func (g *GrantResult) Finalized() bool {
	return g.AccessToken != ""
}

// IncomingPayment is a payment destination created on the receiver's
// resource server. The ID is assigned by the resource server.
type IncomingPayment struct {
	ID             string  `json:"id"`
	WalletAddress  string  `json:"walletAddress"`
	IncomingAmount *Amount `json:"incomingAmount,omitempty"`
	ReceivedAmount *Amount `json:"receivedAmount,omitempty"`
	Completed      bool    `json:"completed,omitempty"`
}

// Quote fixes the exchange terms between the sender and an incoming payment.
type Quote struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Receiver      string `json:"receiver"`
	DebitAmount   Amount `json:"debitAmount"`
	ReceiveAmount Amount `json:"receiveAmount"`
	Method        string `json:"method"`
}

// OutgoingPayment is the final resource of the flow; creating it instructs
// the sender's wallet to pay out against a quote.
type OutgoingPayment struct {
	ID            string  `json:"id"`
	WalletAddress string  `json:"walletAddress"`
	QuoteID       string  `json:"quoteId,omitempty"`
	Receiver      string  `json:"receiver,omitempty"`
	DebitAmount   *Amount `json:"debitAmount,omitempty"`
	ReceiveAmount *Amount `json:"receiveAmount,omitempty"`
	SentAmount    *Amount `json:"sentAmount,omitempty"`
	Failed        bool    `json:"failed,omitempty"`
}
