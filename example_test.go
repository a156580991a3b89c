package sdk_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/tessera-data/sdk"
	"github.com/tessera-data/sdk/types"
	"github.com/tessera-data/sdk/verify"
)

// ExampleNew demonstrates creating a Tessera client.
func ExampleNew() {
	client, err := sdk.New(
		sdk.WithBaseURL("https://tessera.example.com"),
		sdk.WithAPIKey(os.Getenv("TESSERA_API_KEY")),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
}

// ExampleRecordsService_Create demonstrates a verified record creation. The
// write is read back and compared against what was written; the backend's
// tagged wire encoding of the choice list compares equal to the plain form.
func ExampleRecordsService_Create() {
	client, err := sdk.New(sdk.WithBaseURL("https://tessera.example.com"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	created, err := client.Records("budget-2026", "Tasks").Create(ctx, []map[string]any{
		{"Title": "Quarterly review", "Tags": []any{"finance", "q3"}},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("created record %d\n", created[0].ID)
}

// ExampleRecordsService_Update demonstrates handling a verification failure.
// A write the backend accepted but did not persist faithfully surfaces as
// *verify.Error, distinct from an outright rejection.
func ExampleRecordsService_Update() {
	client, err := sdk.New(sdk.WithBaseURL("https://tessera.example.com"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	_, err = client.Records("budget-2026", "Tasks").Update(ctx, []types.RecordUpdate{
		{ID: 41, Fields: map[string]any{"Total": 120.50}},
	})

	var verr *verify.Error
	switch {
	case errors.As(err, &verr):
		// Accepted but unconfirmed: the evidence names the diverged fields.
		fmt.Println(verr.UserMessage())
	case err != nil:
		// Rejected outright by the backend.
		log.Fatal(err)
	}
}

// ExampleTablesService_Rename demonstrates an identity relabel. Verification
// checks both that the old identity stopped resolving and that the new one
// resolves.
func ExampleTablesService_Rename() {
	client, err := sdk.New(sdk.WithBaseURL("https://tessera.example.com"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	table, err := client.Tables("budget-2026").Rename(ctx, "Tasks", "Projects")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("table is now %s\n", table.ID)
}
