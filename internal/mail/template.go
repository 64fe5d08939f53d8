package mail

import (
	"fmt"
	"html/template"
	"strings"

	"inventory-backend/internal/inventory"
)

var lowStockTmpl = template.Must(template.New("lowstock").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e53e3e;">⚠️ Stock Alert: {{.Product}}</h2>
  <div style="background-color: #fff5f5; padding: 20px; border-radius: 8px; border-left: 4px solid #e53e3e;">
    <h3>Product Details:</h3>
    <ul style="list-style: none; padding: 0;">
      <li><strong>Product:</strong> {{.Product}}</li>
      {{if .SKU}}<li><strong>SKU:</strong> {{.SKU}}</li>{{end}}
      {{if .Category}}<li><strong>Category:</strong> {{.Category}}</li>{{end}}
      <li><strong>Current Stock:</strong> {{.Quantity}} units</li>
      <li><strong>Minimum Threshold:</strong> {{.Threshold}} units</li>
    </ul>
    <div style="margin-top: 20px; padding: 15px; background-color: #fed7d7; border-radius: 6px;">
      {{if eq .Quantity 0}}<p style="margin: 0; font-weight: bold;">⚠️ OUT OF STOCK!</p>
      <p style="margin: 10px 0 0 0;">This product is out of stock. Please restock immediately.</p>
      {{else}}<p style="margin: 0; font-weight: bold;">⚠️ Stock is below minimum threshold!</p>
      <p style="margin: 10px 0 0 0;">Please consider restocking this product soon.</p>
      {{end}}
    </div>
  </div>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #e2e8f0;">
    <p style="color: #718096; font-size: 14px;">This alert was generated automatically by your inventory management system.</p>
  </div>
</div>`))

func renderLowStockHTML(alert inventory.LowStockAlert) string {
	var b strings.Builder
	if err := lowStockTmpl.Execute(&b, alert); err != nil {
		return fmt.Sprintf("<p>Stock alert: %s is down to %d units.</p>",
			template.HTMLEscapeString(alert.Product), alert.Quantity)
	}
	return b.String()
}
