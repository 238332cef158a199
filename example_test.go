package googleidtoken_test

import (
	"context"
	"fmt"
	"log"

	"github.com/axent-pl/googleidtoken"
)

func ExampleClient_Verify() {
	client := googleidtoken.NewGoogleSignIn("your-client-id.apps.googleusercontent.com")

	token, err := client.Verify(context.Background(), "raw-id-token-from-the-frontend")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token.Subject, token.Email)
}

func ExampleClient_VerifyAsync() {
	client := googleidtoken.NewFirebase("my-firebase-project")

	result := <-client.VerifyAsync(context.Background(), "raw-firebase-id-token")
	if result.Err != nil {
		log.Fatal(result.Err)
	}
	fmt.Println(result.Token.Subject)
}
