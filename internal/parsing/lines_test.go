package parsing

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractLines", func() {
	var (
		lines []string
		items []ReceiptLine
	)

	JustBeforeEach(func() {
		items = ExtractLines(lines)
	})

	When("a line is quantity-first", func() {
		BeforeEach(func() {
			lines = []string{"2 x Coffee Beans $5.00"}
		})

		It("should extract quantity, name and price", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Coffee Beans"))
			Expect(items[0].Qty.String()).To(Equal("2"))
			Expect(items[0].Unit).To(Equal("ea"))
			Expect(items[0].UnitPrice.String()).To(Equal("5.00"))
			Expect(items[0].LineTotal.String()).To(Equal("10.00"))
		})
	})

	When("the quantity separator is upper case", func() {
		BeforeEach(func() {
			lines = []string{"3 X Bagels 1.50"}
		})

		It("should still match", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Bagels"))
			Expect(items[0].Qty.String()).To(Equal("3"))
			Expect(items[0].LineTotal.String()).To(Equal("4.50"))
		})
	})

	When("a line is name-first with a quantity", func() {
		BeforeEach(func() {
			lines = []string{"Organic Milk 2 $3.25"}
		})

		It("should extract name, quantity and price", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Organic Milk"))
			Expect(items[0].Qty.String()).To(Equal("2"))
			Expect(items[0].UnitPrice.String()).To(Equal("3.25"))
			Expect(items[0].LineTotal.String()).To(Equal("6.50"))
		})
	})

	When("a line has only a name and a price", func() {
		BeforeEach(func() {
			lines = []string{"Bananas $1.99"}
		})

		It("should default the quantity to one", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Bananas"))
			Expect(items[0].Qty.String()).To(Equal("1"))
			Expect(items[0].UnitPrice.String()).To(Equal("1.99"))
			Expect(items[0].LineTotal.String()).To(Equal("1.99"))
		})
	})

	When("the price has no dollar sign", func() {
		BeforeEach(func() {
			lines = []string{"Bananas 1.99"}
		})

		It("should still match", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Bananas"))
			Expect(items[0].UnitPrice.String()).To(Equal("1.99"))
		})
	})

	When("lines carry header or footer markers", func() {
		BeforeEach(func() {
			lines = []string{
				"TOTAL: 9.99",
				"Tax 0.50",
				"Subtotal 9.49",
				"Store #12 5.00",
				"Date: 01/01/2024",
				"Receipt No. 12345",
			}
		})

		It("should never treat them as line items", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a line matches no tier", func() {
		BeforeEach(func() {
			lines = []string{"--------", "THANK YOU", ""}
		})

		It("should drop it silently", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("the same item repeats", func() {
		BeforeEach(func() {
			lines = []string{"Bananas $1.99", "Bananas $1.99"}
		})

		It("should keep both, in order", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("Bananas"))
			Expect(items[1].Name).To(Equal("Bananas"))
		})
	})

	When("more than twenty price-only lines appear", func() {
		BeforeEach(func() {
			lines = nil
			for i := 0; i < 25; i++ {
				lines = append(lines, fmt.Sprintf("Oddment %c $1.00", 'A'+i))
			}
		})

		It("should stop accepting price-only lines at twenty", func() {
			Expect(items).To(HaveLen(20))
		})

		It("should keep the first twenty in order", func() {
			Expect(items[0].Name).To(Equal("Oddment A"))
			Expect(items[19].Name).To(Equal("Oddment T"))
		})
	})

	When("a quantity-bearing line follows twenty price-only lines", func() {
		BeforeEach(func() {
			lines = nil
			for i := 0; i < 25; i++ {
				lines = append(lines, fmt.Sprintf("Oddment %c $1.00", 'A'+i))
			}
			lines = append(lines, "Organic Milk 2 $3.25")
		})

		It("should still accept it through the earlier tiers", func() {
			Expect(items).To(HaveLen(21))
			Expect(items[20].Name).To(Equal("Organic Milk"))
		})
	})

	When("quantity and unit price are both present", func() {
		BeforeEach(func() {
			lines = []string{
				"2 x Coffee Beans $5.00",
				"Organic Milk 2 $3.25",
				"Bananas $1.99",
			}
		})

		It("should derive line totals as qty times unit price", func() {
			for _, item := range items {
				Expect(item.LineTotal.Equal(item.Qty.Mul(*item.UnitPrice))).To(BeTrue(), "item %q", item.Name)
			}
		})

		It("should preserve source order", func() {
			Expect(items).To(HaveLen(3))
			Expect(items[0].Name).To(Equal("Coffee Beans"))
			Expect(items[1].Name).To(Equal("Organic Milk"))
			Expect(items[2].Name).To(Equal("Bananas"))
		})
	})
})
