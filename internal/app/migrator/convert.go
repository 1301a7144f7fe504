package migrator

import (
	"fmt"
	"sort"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/db"
)

// Documents is the document-store image of a relational Dataset.
type Documents struct {
	Categories []model.CategoryDocument
	Products   []model.ProductDocument
	Users      []model.UserDocument

	MaxOrderID   uint
	MaxInvoiceID uint
}

// BuildDocuments maps rows to documents. The result depends only on the row contents, not
// on the order rows were read in, so repeated migrations produce identical collections.
func BuildDocuments(data db.Dataset) (*Documents, error) {
	docs := &Documents{
		Categories: make([]model.CategoryDocument, 0, len(data.Categories)),
		Products:   make([]model.ProductDocument, 0, len(data.Products)),
		Users:      make([]model.UserDocument, 0, len(data.Users)),
	}

	for _, c := range data.Categories {
		docs.Categories = append(docs.Categories, model.CategoryDocument{
			ID:          c.CategoryID,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	sort.Slice(docs.Categories, func(i, j int) bool { return docs.Categories[i].ID < docs.Categories[j].ID })

	categoryIDs := make(map[uint][]uint)
	for _, pc := range data.ProductCategories {
		categoryIDs[pc.ProductID] = append(categoryIDs[pc.ProductID], pc.CategoryID)
	}
	accessoryIDs := make(map[uint][]uint)
	for _, a := range data.Accessories {
		accessoryIDs[a.BaseProductID] = append(accessoryIDs[a.BaseProductID], a.AccessoryProductID)
	}

	for _, p := range data.Products {
		price, err := model.ToDecimal128(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ProductID, err)
		}
		docs.Products = append(docs.Products, model.ProductDocument{
			ID:           p.ProductID,
			Name:         p.Name,
			Price:        price,
			Quantity:     p.Quantity,
			Description:  p.Description,
			CategoryIDs:  sortedIDs(categoryIDs[p.ProductID]),
			AccessoryIDs: sortedIDs(accessoryIDs[p.ProductID]),
		})
	}
	sort.Slice(docs.Products, func(i, j int) bool { return docs.Products[i].ID < docs.Products[j].ID })

	orders := make(map[uint][]model.OrderDocument)
	for _, o := range data.Orders {
		doc, err := orderDocument(o)
		if err != nil {
			return nil, err
		}
		orders[o.UserID] = append(orders[o.UserID], doc)
		if o.OrderID > docs.MaxOrderID {
			docs.MaxOrderID = o.OrderID
		}
		if o.Invoice != nil && o.Invoice.InvoiceID > docs.MaxInvoiceID {
			docs.MaxInvoiceID = o.Invoice.InvoiceID
		}
	}

	carts := make(map[uint][]model.LineItemDocument)
	for _, cp := range data.CartProducts {
		carts[cp.UserID] = append(carts[cp.UserID], model.LineItemDocument{
			ProductID: cp.ProductID,
			Quantity:  cp.Quantity,
		})
	}

	for _, u := range data.Users {
		userOrders := orders[u.UserID]
		if userOrders == nil {
			userOrders = []model.OrderDocument{}
		}
		sort.Slice(userOrders, func(i, j int) bool { return userOrders[i].OrderID < userOrders[j].OrderID })

		docs.Users = append(docs.Users, model.UserDocument{
			ID:             u.UserID,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Email:          u.Email,
			Password:       u.Password,
			DateRegistered: normalizeTime(u.DateRegistered),
			Orders:         userOrders,
			CartProducts:   sortedItems(carts[u.UserID]),
		})
	}
	sort.Slice(docs.Users, func(i, j int) bool { return docs.Users[i].ID < docs.Users[j].ID })

	return docs, nil
}

func orderDocument(o model.Order) (model.OrderDocument, error) {
	items := make([]model.LineItemDocument, 0, len(o.OrderProducts))
	for _, op := range o.OrderProducts {
		items = append(items, model.LineItemDocument{ProductID: op.ProductID, Quantity: op.Quantity})
	}

	doc := model.OrderDocument{
		OrderID:       o.OrderID,
		DatePlaced:    normalizeTime(o.DatePlaced),
		Status:        o.Status,
		OrderProducts: sortedItems(items),
	}
	if o.Invoice != nil {
		total, err := model.ToDecimal128(o.Invoice.TotalCost)
		if err != nil {
			return model.OrderDocument{}, fmt.Errorf("invoice %d: %w", o.Invoice.InvoiceID, err)
		}
		doc.Invoice = &model.InvoiceDocument{
			InvoiceID:     o.Invoice.InvoiceID,
			TotalCost:     total,
			DateIssued:    normalizeTime(o.Invoice.DateIssued),
			PaymentStatus: o.Invoice.PaymentStatus,
		}
	}
	return doc, nil
}

// normalizeTime matches what BSON datetimes can hold.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func sortedIDs(ids []uint) []uint {
	out := append(make([]uint, 0, len(ids)), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedItems(items []model.LineItemDocument) []model.LineItemDocument {
	out := append(make([]model.LineItemDocument, 0, len(items)), items...)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
