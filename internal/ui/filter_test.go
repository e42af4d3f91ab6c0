package ui

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lakshman12791/receipt-console/internal/receipt"
)

var _ = Describe("FilterReceipts", func() {
	var receipts []receipt.Receipt

	BeforeEach(func() {
		receipts = []receipt.Receipt{
			{ID: "r1", Merchant: "Acme Hardware", Date: "2024-01-15", TotalAmount: floatPtr(12.5), UploadedAt: "2024-01-15T09:30:00Z"},
			{ID: "r2", Merchant: "Corner Cafe", Date: "2024-02-20", TotalAmount: floatPtr(3.75), UploadedAt: "2024-02-20T18:00:00Z"},
			{ID: "r3"},
		}
	})

	When("the query is empty or whitespace", func() {
		It("should return the full list", func() {
			Expect(FilterReceipts(receipts, "")).To(HaveLen(3))
			Expect(FilterReceipts(receipts, "   ")).To(HaveLen(3))
		})
	})

	When("the query matches a merchant", func() {
		It("should match case-insensitively", func() {
			matched := FilterReceipts(receipts, "ACME")
			Expect(matched).To(HaveLen(1))
			Expect(matched[0].ID).To(Equal("r1"))
		})
	})

	When("the query matches a date substring", func() {
		It("should return those rows", func() {
			matched := FilterReceipts(receipts, "2024-02")
			Expect(matched).To(HaveLen(1))
			Expect(matched[0].ID).To(Equal("r2"))
		})
	})

	When("the query matches the amount as text", func() {
		It("should return those rows", func() {
			matched := FilterReceipts(receipts, "12.5")
			Expect(matched).To(HaveLen(1))
			Expect(matched[0].ID).To(Equal("r1"))
		})
	})

	When("the query matches the formatted upload timestamp", func() {
		It("should return those rows", func() {
			// 2024-02-20T18:00:00Z renders as 2/20/2024, 6:00:00 PM
			matched := FilterReceipts(receipts, "6:00:00 pm")
			Expect(matched).To(HaveLen(1))
			Expect(matched[0].ID).To(Equal("r2"))
		})
	})

	When("nothing matches", func() {
		It("should return an empty slice", func() {
			Expect(FilterReceipts(receipts, "zzz")).To(BeEmpty())
		})
	})

	When("fields are absent", func() {
		It("should not match rows with nothing to match on", func() {
			matched := FilterReceipts(receipts, "acme")
			for _, r := range matched {
				Expect(r.ID).NotTo(Equal("r3"))
			}
		})
	})
})
