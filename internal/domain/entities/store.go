package entities

// Store is the merchant identity that owns drops and items.
//
// Storage model (DynamoDB):
//   - PK: id
type Store struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PhoneNumber      string `json:"phone_number"`
	Description      string `json:"description"`
	PrivacyPolicyURL string `json:"privacy_policy_url"`
}
