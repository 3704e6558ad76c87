package render

import "html/template"

// 商品・カートは data-* 属性で識別し、クリック時の引数を文字列で埋め込まない。
var sectionsTmpl = template.Must(template.New("sections").Parse(`{{range $s := .}}<section class="products" id="products-{{$s.Bucket}}" data-bucket="{{$s.Bucket}}">
<h2>{{$s.Title}}</h2>
{{- if $s.Placeholder}}
<p class="placeholder{{if $s.Error}} error{{end}}">{{$s.Placeholder}}</p>
{{- else}}
{{- range $s.Cards}}
<div class="product{{if .OutOfStock}} out-of-stock{{end}}{{if .LowStock}} low-stock{{end}}" data-product-id="{{.ID}}">
<img src="{{.Image}}" alt="{{.Name}}">
<h3>{{.Name}}</h3>
<p class="price">{{.PriceLabel}}</p>
{{- if .LowStock}}<span class="badge">{{$s.LowStockLabel}}</span>{{end}}
</div>
{{- end}}
{{- end}}
</section>
{{end}}`))

var cartTmpl = template.Must(template.New("cart").Parse(`<div class="cart-items" data-count="{{.Count}}">
{{- range .Items}}
<div class="cart-item" data-product-id="{{.ProductID}}" data-size="{{.Size}}">
<img src="{{.Image}}" alt="{{.Name}}">
<strong>{{.Name}}</strong>
{{- if .Size}}<span class="cart-size">{{$.SizeLabel}}: {{.Size}}</span>{{end}}
<button class="qty-btn" data-action="change" data-delta="-1">−</button>
<input class="qty-input" type="number" min="1" value="{{.Quantity}}" data-action="set">
<button class="qty-btn" data-action="change" data-delta="1">+</button>
<button class="remove-btn" data-action="remove">×</button>
<span class="cart-sum">{{.SumLabel}}</span>
</div>
{{- end}}
<p class="cart-total">{{.TotalLabel}}</p>
</div>`))
