// Package memo holds the document model shared by every renderer: line items from
// manual entry, catalog products and order snapshots, and the Document aggregate that
// derives subtotal and total from them.
//
// Two document kinds exist and total differently:
//
//	CASH_MEMO: subtotal + delivery - discount
//	INVOICE:   subtotal + delivery + tax - discount
//
// A row is rendered and summed only when its name is non-empty and its unit price is
// positive. BillableItems is the one place that rule is applied.
package memo
