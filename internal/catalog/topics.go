package catalog

import "strconv"

const TopicCatalogEvents = "catalog.events"

// Partition key = product_id, supaya event product & review-nya tetap berurutan.
func PartitionKey(productID int64) []byte { return []byte(strconv.FormatInt(productID, 10)) }
