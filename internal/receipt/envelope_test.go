package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Envelopes", func() {
	Describe("UnwrapList", func() {
		When("the response is a bare array", func() {
			It("should return the records", func() {
				receipts, err := UnwrapList([]byte(`[{"id": "r1"}, {"id": "r2"}]`))
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(HaveLen(2))
				Expect(receipts[0].ID).To(Equal("r1"))
			})
		})

		When("the response is wrapped in receiptsArray", func() {
			It("should return the same records as the bare shape", func() {
				bare, err := UnwrapList([]byte(`[{"id": "r1"}]`))
				Expect(err).NotTo(HaveOccurred())

				wrapped, err := UnwrapList([]byte(`{"receiptsArray": [{"id": "r1"}]}`))
				Expect(err).NotTo(HaveOccurred())

				Expect(wrapped).To(Equal(bare))
			})
		})

		When("the response is an empty array", func() {
			It("should return an empty slice", func() {
				receipts, err := UnwrapList([]byte(`[]`))
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(BeEmpty())
			})
		})

		When("the response body is empty", func() {
			It("should return an empty slice", func() {
				receipts, err := UnwrapList([]byte(``))
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(BeEmpty())
			})
		})

		When("the envelope is unrecognized", func() {
			It("should return an error", func() {
				_, err := UnwrapList([]byte(`{"something": "else"}`))
				Expect(err).To(HaveOccurred())
			})
		})

		When("the body is not JSON", func() {
			It("should return an error", func() {
				_, err := UnwrapList([]byte(`<html>`))
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("UnwrapDetail", func() {
		When("the response is wrapped in receiptDetails", func() {
			It("should return the inner record", func() {
				r, err := UnwrapDetail([]byte(`{"receiptDetails": {"_id": "r1", "items": [{"description": "Coffee", "quantity": 2, "unit_price": 3}]}}`))
				Expect(err).NotTo(HaveOccurred())
				Expect(r.ID).To(Equal("r1"))
				Expect(r.Items).To(HaveLen(1))
				Expect(r.Items[0].Description).To(Equal("Coffee"))
			})
		})

		When("the response is a bare record", func() {
			It("should return it unchanged", func() {
				r, err := UnwrapDetail([]byte(`{"id": "r1", "merchant_name": "Acme"}`))
				Expect(err).NotTo(HaveOccurred())
				Expect(r.ID).To(Equal("r1"))
				Expect(r.Merchant).To(Equal("Acme"))
			})
		})

		When("the body is not JSON", func() {
			It("should return an error", func() {
				_, err := UnwrapDetail([]byte(`nope`))
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("UnwrapRecord", func() {
		When("the response is wrapped in receipt", func() {
			It("should return the inner record", func() {
				r, err := UnwrapRecord([]byte(`{"receipt": {"id": "r9"}}`))
				Expect(err).NotTo(HaveOccurred())
				Expect(r.ID).To(Equal("r9"))
			})
		})

		When("the response is a bare record", func() {
			It("should return it unchanged", func() {
				r, err := UnwrapRecord([]byte(`{"id": "r9", "total_amount": 12.5}`))
				Expect(err).NotTo(HaveOccurred())
				Expect(r.ID).To(Equal("r9"))
				Expect(r.TotalAmount).To(HaveValue(Equal(12.5)))
			})
		})
	})
})
