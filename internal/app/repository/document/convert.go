package document

import (
	"sort"

	"github.com/ikkim/dualstore-shop/internal/app/model"
)

func categoryFromDocument(doc model.CategoryDocument) model.Category {
	return model.Category{
		CategoryID:  doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
	}
}

// productFromDocument resolves category ids through categories; unknown ids are dropped.
func productFromDocument(doc model.ProductDocument, categories map[uint]model.Category) (model.Product, error) {
	price, err := model.FromDecimal128(doc.Price)
	if err != nil {
		return model.Product{}, err
	}

	ids := append([]uint(nil), doc.CategoryIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	p := model.Product{
		ProductID:   doc.ID,
		Name:        doc.Name,
		Price:       price,
		Quantity:    doc.Quantity,
		Description: doc.Description,
		Categories:  make([]model.Category, 0, len(ids)),
	}
	for _, id := range ids {
		if c, ok := categories[id]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return p, nil
}

func userFromDocument(doc model.UserDocument) model.User {
	return model.User{
		UserID:         doc.ID,
		FirstName:      doc.FirstName,
		LastName:       doc.LastName,
		Email:          doc.Email,
		Password:       doc.Password,
		DateRegistered: doc.DateRegistered,
	}
}
