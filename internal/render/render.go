package render

import (
	"bytes"
	"fmt"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

type sectionData struct {
	usecase.Section
	LowStockLabel string
}

// Sections は3つのセクションのHTML断片
func Sections(sections []usecase.Section) (string, error) {
	data := make([]sectionData, 0, len(sections))
	for _, s := range sections {
		data = append(data, sectionData{Section: s, LowStockLabel: usecase.MsgLowStock})
	}

	var buf bytes.Buffer
	if err := sectionsTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render sections: %w", err)
	}
	return buf.String(), nil
}

type cartItemData struct {
	ProductID string
	Size      model.Size
	Quantity  int
	Name      string
	Image     string
	SumLabel  string
}

type cartData struct {
	Items      []cartItemData
	Count      int
	TotalLabel string
	SizeLabel  string
}

// Cart はカート明細のHTML断片（カタログに無い行は出さない）
func Cart(snap usecase.CartSnapshot) (string, error) {
	data := cartData{
		Count:      snap.Count,
		TotalLabel: fmt.Sprintf("%s: %s", usecase.MsgOrderTotal, usecase.FormatPrice(snap.Total)),
		SizeLabel:  "Розмір",
	}
	for _, it := range snap.Items {
		data.Items = append(data.Items, cartItemData{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Name:      it.Name,
			Image:     it.Image,
			SumLabel:  usecase.FormatPrice(it.Sum),
		})
	}

	var buf bytes.Buffer
	if err := cartTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render cart: %w", err)
	}
	return buf.String(), nil
}
