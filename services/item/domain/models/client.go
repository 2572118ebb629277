package models

// Client is a customer associated with items through ItemClient.
type Client struct {
	ID   int64
	Name string
}

// ItemClient is the join record between Item and Client. It is loaded for
// display only and never written by the item service.
type ItemClient struct {
	ItemID   int64
	ClientID int64
	Client   *Client
}
