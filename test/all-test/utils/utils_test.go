package utils

import (
    "strings"
    "testing"

    "github.com/fatih/color"
)

func TestMessages(test *testing.T){
    color.NoColor = true

    if !strings.HasSuffix(Success("decimal"), "passed") {
        test.Fatalf("unexpected success message %q", Success("decimal"))
    }

    if !strings.HasSuffix(Failure("decimal"), "failed") {
        test.Fatalf("unexpected failure message %q", Failure("decimal"))
    }
}
