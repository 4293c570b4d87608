package validation

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"todolist/internal/core/model/request"
)

func TestValidator_TodoRequest(t *testing.T) {
	RegisterTestingT(t)

	err := Validator.Struct(request.TodoRequest{})
	Expect(err).ToNot(BeNil())

	errs := FormatValidationErrors(err)
	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Field).To(Equal("text"))
	Expect(errs[0].Message).To(Equal("Text is required"))

	Expect(Validator.Struct(request.TodoRequest{Text: "buy some cheese"})).To(Succeed())
}

func TestValidator_ListTodosQuery(t *testing.T) {
	RegisterTestingT(t)

	Expect(Validator.Struct(request.ListTodosQuery{})).To(Succeed())
	Expect(Validator.Struct(request.ListTodosQuery{Status: "pending"})).To(Succeed())

	errs := FormatValidationErrors(Validator.Struct(request.ListTodosQuery{Status: "archived"}))
	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Message).To(Equal("Status must be one of [all pending completed]"))
}

func TestFormatValidationErrors_OtherErrors(t *testing.T) {
	RegisterTestingT(t)

	Expect(FormatValidationErrors(errors.New("boom"))).To(BeEmpty())
}
