package ui

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lakshman12791/receipt-console/internal/api"
	"github.com/lakshman12791/receipt-console/internal/receipt"
)

var _ = Describe("Panel", func() {
	var (
		client   *mockClient
		shell    *Shell
		ctx      context.Context
		cancel   context.CancelFunc
		readErr  error
		fileData []byte
		reads    []string
	)

	newPanel := func(op Operation) *Panel {
		return NewPanelWithReader(op, client, shell, nil, func(path string) ([]byte, error) {
			reads = append(reads, path)
			if readErr != nil {
				return nil, readErr
			}
			return fileData, nil
		})
	}

	BeforeEach(func() {
		client = newMockClient()
		ctx, cancel = context.WithCancel(context.Background())
		shell = NewShellWithDelay(ctx, client, nil, time.Hour)
		readErr = nil
		fileData = []byte("%PDF-1.4 data")
		reads = nil
	})

	AfterEach(func() {
		shell.Close()
		cancel()
	})

	Describe("client-side guards", func() {
		When("no file is selected", func() {
			It("should report an error without any network call", func() {
				panel := newPanel(OpUpload)
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback).NotTo(BeNil())
				Expect(state.Feedback.Success).To(BeFalse())
				Expect(state.Feedback.Message).To(Equal("Choose a PDF receipt"))
				Expect(client.uploadCalls).To(BeZero())
				Expect(reads).To(BeEmpty())
			})
		})

		When("the file is not a PDF", func() {
			It("should report an error without any network call", func() {
				panel := newPanel(OpUpload)
				panel.SetFile("notes.txt")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback).NotTo(BeNil())
				Expect(state.Feedback.Message).To(Equal("Only PDF receipts are supported"))
				Expect(client.uploadCalls).To(BeZero())
			})
		})

		When("the extension case differs", func() {
			It("should accept it", func() {
				client.uploadResult = receipt.Receipt{ID: "r1"}
				panel := newPanel(OpUpload)
				panel.SetFile("SCAN.PDF")
				panel.Submit(ctx)

				Expect(client.uploadCalls).To(Equal(1))
			})
		})
	})

	Describe("upload", func() {
		When("the upload succeeds", func() {
			BeforeEach(func() {
				client.uploadResult = receipt.Receipt{ID: "r1", Merchant: "Acme"}
				client.receipts = []receipt.Receipt{{ID: "old"}}
				shell.Load(ctx)
			})

			It("should prepend exactly one new row", func() {
				panel := newPanel(OpUpload)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				snap := shell.Snapshot()
				Expect(snap.Receipts).To(HaveLen(2))
				Expect(snap.Receipts[0].ID).To(Equal("r1"))
			})

			It("should clear the file selection so the same path can be resubmitted", func() {
				panel := newPanel(OpUpload)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				Expect(panel.State().FilePath).To(BeEmpty())
			})

			It("should classify the outcome as success", func() {
				panel := newPanel(OpUpload)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback.Success).To(BeTrue())
				Expect(state.Busy).To(BeFalse())
			})
		})

		When("the upload fails", func() {
			BeforeEach(func() {
				client.uploadErr = errors.New("not a PDF")
			})

			It("should surface the message and keep the selection", func() {
				panel := newPanel(OpUpload)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback.Success).To(BeFalse())
				Expect(state.Feedback.Message).To(Equal("not a PDF"))
				Expect(state.FilePath).To(Equal("receipt.pdf"))
				Expect(state.Busy).To(BeFalse())
			})
		})

		When("the file cannot be read", func() {
			BeforeEach(func() {
				readErr = errors.New("no such file")
			})

			It("should report the read error without a network call", func() {
				panel := newPanel(OpUpload)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				Expect(panel.State().Feedback.Message).To(Equal("no such file"))
				Expect(client.uploadCalls).To(BeZero())
			})
		})
	})

	Describe("validate", func() {
		When("the backend says the receipt is invalid", func() {
			BeforeEach(func() {
				client.validateResult = api.ValidationResult{IsValid: false, Message: "Blurry scan"}
			})

			It("should classify the message as an error", func() {
				panel := newPanel(OpValidate)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback.Success).To(BeFalse())
				Expect(state.Feedback.Message).To(Equal("Blurry scan"))
			})

			It("should still refresh the list afterward", func() {
				panel := newPanel(OpValidate)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				Expect(client.listQueries()).NotTo(BeEmpty())
			})
		})

		When("the backend says the receipt is valid", func() {
			BeforeEach(func() {
				client.validateResult = api.ValidationResult{IsValid: true, Message: "Looks good"}
			})

			It("should classify the message as a success", func() {
				panel := newPanel(OpValidate)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback.Success).To(BeTrue())
				Expect(state.Feedback.Message).To(Equal("Looks good"))
			})
		})
	})

	Describe("process", func() {
		When("processing succeeds with extracted fields", func() {
			BeforeEach(func() {
				client.processResult = api.ProcessingResult{
					IsProcessed: true,
					Message:     "done",
					Result: &api.ExtractedFields{
						MerchantName: "Acme",
						ReceiptDate:  "2024-01-01",
						Amount:       floatPtr(12.5),
					},
				}
			})

			It("should render the extracted breakdown", func() {
				panel := newPanel(OpProcess)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback.Success).To(BeTrue())
				Expect(state.Feedback.Fields).To(Equal([]Field{
					{Label: "Merchant", Value: "Acme"},
					{Label: "Date", Value: "2024-01-01"},
					{Label: "Amount", Value: "$12.50"},
				}))
			})

			It("should refresh the list afterward", func() {
				panel := newPanel(OpProcess)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				Expect(client.listQueries()).NotTo(BeEmpty())
			})
		})

		When("processing fails the business check", func() {
			BeforeEach(func() {
				client.processResult = api.ProcessingResult{IsProcessed: false, Message: "could not extract"}
			})

			It("should classify the message as an error with no breakdown", func() {
				panel := newPanel(OpProcess)
				panel.SetFile("receipt.pdf")
				panel.Submit(ctx)

				state := panel.State()
				Expect(state.Feedback.Success).To(BeFalse())
				Expect(state.Feedback.Fields).To(BeEmpty())
			})
		})
	})

	Describe("cancellation", func() {
		It("should drop the outcome silently", func() {
			client.uploadErr = context.Canceled
			panel := newPanel(OpUpload)
			panel.SetFile("receipt.pdf")
			panel.Submit(ctx)

			state := panel.State()
			Expect(state.Feedback).To(BeNil())
			Expect(state.Busy).To(BeFalse())
		})
	})
})
