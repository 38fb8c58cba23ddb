// internal/content/page.go
package content

import (
	"fmt"
	"strings"

	"blogforge/internal/common/config"
	"blogforge/internal/research"
)

const pageStyle = `body {
    font-family: system-ui, -apple-system, sans-serif;
    max-width: 800px;
    margin: 40px auto;
    padding: 0 20px;
    line-height: 1.6;
    color: #333;
}
h1, h2, h3 { color: #2c3e50; }
h1 { font-size: 2.2em; margin-bottom: 0.5em; }
h2 { font-size: 1.8em; margin-top: 1.5em; }
h3 { font-size: 1.4em; margin-top: 1.2em; }
p { margin: 1em 0; }
a { color: #3498db; text-decoration: none; }
a:hover { text-decoration: underline; }
.affiliate-box {
    background: #f8f9fa;
    border: 2px solid #3498db;
    border-radius: 8px;
    padding: 20px;
    margin: 30px 0;
}
.cta-button {
    display: inline-block;
    background: #3498db;
    color: white;
    padding: 12px 30px;
    border-radius: 5px;
    text-decoration: none;
    font-weight: bold;
    margin: 10px 0;
}
.cta-button:hover {
    background: #2980b9;
    text-decoration: none;
}
.disclaimer {
    background: #fff3cd;
    border-left: 4px solid #ffc107;
    padding: 15px;
    margin: 30px 0;
    font-size: 0.9em;
}
.trust-score {
    background: #d4edda;
    border: 1px solid #c3e6cb;
    padding: 10px;
    border-radius: 5px;
    margin: 20px 0;
}
.complaint-section {
    background: #f8d7da;
    border: 1px solid #f5c6cb;
    border-radius: 5px;
    padding: 15px;
    margin: 20px 0;
    font-size: 0.9em;
}`

// AffiliateLink resolves the outbound link for a product. A manually
// configured link always wins; clickbank hoplinks get the nickname
// substituted for the {id} placeholder; anything else falls back to the raw
// hoplink or a dead anchor.
func AffiliateLink(product *research.Product, platforms config.PlatformConfig) string {
	if product.AffiliateLink != "" {
		return product.AffiliateLink
	}
	if product.Platform == "clickbank" && product.Hoplink != "" {
		nickname := platforms.Clickbank.Nickname
		if nickname == "" {
			nickname = "YOURNICKNAME"
		}
		return strings.ReplaceAll(product.Hoplink, "{id}", nickname)
	}
	if product.Hoplink != "" {
		return product.Hoplink
	}
	return "#"
}

func affiliateSection(product *research.Product, record *research.Record, platforms config.PlatformConfig) string {
	link := AffiliateLink(product, platforms)

	var benefits strings.Builder
	for i, benefit := range record.Benefits {
		if i >= 3 {
			break
		}
		benefits.WriteString(fmt.Sprintf("<li>%s</li>", benefit))
	}

	return fmt.Sprintf(`
<div class="affiliate-box">
<h2>Ready to Try %s?</h2>

<div class="trust-score">
<strong>Our Research Score:</strong> %d/100<br>
<em>%s</em>
</div>

<p>Based on our research, %s shows promising results. Here's what we found:</p>
<ul>
%s
</ul>

<p style="text-align: center;">
<a href="%s" class="cta-button" target="_blank" rel="nofollow sponsored">
Learn More About %s →
</a>
</p>

<p style="font-size: 0.9em; color: #666;">
<strong>Note:</strong> This is an affiliate link. We may earn a commission if you make a purchase,
at no additional cost to you. We only recommend products we've thoroughly researched.
</p>

<p style="font-size: 0.8em; color: #888;">
<strong>Medical Disclaimer:</strong> Before using any supplement, including %s,
you should consult with your healthcare provider to ensure it's appropriate for your
specific health conditions and doesn't interact with any medications you're taking.
</p>
</div>
`, product.Name, record.TrustScore, record.Recommendation, product.Name,
		benefits.String(), link, product.Name, product.Name)
}

func complaintSection(email string) string {
	return fmt.Sprintf(`<div class="complaint-section">
<h3>Report Issues with Affiliate Links</h3>
<p>If you encounter any problems with the affiliate links above, or if you believe they lead to unsafe or misleading products, please let us know immediately. We investigate all complaints and remove problematic links.</p>
<p><strong>Contact us:</strong> <a href="mailto:%s">%s</a></p>
</div>`, email, email)
}

// BuildHTML assembles the full standalone post page: head with SEO tags,
// article body, affiliate box, complaint section and disclaimer.
func BuildHTML(
	title, metaDescription, bodyHTML string,
	product *research.Product,
	record *research.Record,
	platforms config.PlatformConfig,
	safety config.SafetyConfig,
) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>%s</title>
<meta name="description" content="%s">
<style>
%s
</style>
</head>
<body>
<article>
<h1>%s</h1>

%s

%s

%s

<div class="disclaimer">
%s
</div>

</article>
</body>
</html>`, title, metaDescription, pageStyle, title, bodyHTML,
		affiliateSection(product, record, platforms),
		complaintSection(safety.ComplaintEmail),
		safety.DisclaimerText)
}
