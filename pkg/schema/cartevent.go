package schema

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_event",
	"fields": [
		{"name": "event_type", "type": "string"},
		{"name": "product_id", "type": "long"},
		{"name": "product_name", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "price", "type": "string"},
		{"name": "quantity", "type": "long"},
		{"name": "total_items", "type": "long"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// A CartEventV1 is the wire form of one cart mutation.
//
// Price is a decimal string, occurred_at is unix milliseconds.
type CartEventV1 struct {
	EventType   string `avro:"event_type"`
	ProductID   int64  `avro:"product_id"`
	ProductName string `avro:"product_name"`
	Category    string `avro:"category"`
	Price       string `avro:"price"`
	Quantity    int64  `avro:"quantity"`
	TotalItems  int64  `avro:"total_items"`
	OccurredAt  int64  `avro:"occurred_at"`
}
