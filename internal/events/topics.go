package events

const (
	TopicProductChanged   = "catalog.product.changed"
	TopicCheckoutComposed = "storefront.checkout.composed"
	TopicSettingsSaved    = "storefront.settings.saved"
)

// PartitionKey keeps every event of one aggregate on the same partition.
func PartitionKey(id string) []byte { return []byte(id) }
