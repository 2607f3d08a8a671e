package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. On success the session
// manager stores the access credential and the refresh cookie arrives in
// the cookie store, so the session survives a restart.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.manager.Login(ctx, userName, password, true)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Println("Invalid username or password.")
			return nil
		}
		fmt.Printf("Login failed: %s\n", err.Error())
		return err
	}

	fmt.Printf("Logged in as %s.\n", user.FullName)
	return nil
}

// Register prompts for account details and creates a new account. The user
// still logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	reg := models.Registration{}

	var err error
	if reg.Username, err = getSimpleText(a.reader, "Enter username", os.Stdout); err != nil {
		return err
	}
	if reg.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return err
	}
	if reg.FirstName, err = getSimpleText(a.reader, "Enter first name", os.Stdout); err != nil {
		return err
	}
	if reg.LastName, err = getSimpleText(a.reader, "Enter last name", os.Stdout); err != nil {
		return err
	}
	dept, err := getSimpleText(a.reader, "Enter department id (blank for none)", os.Stdout)
	if err != nil {
		return err
	}
	if strings.TrimSpace(dept) != "" {
		id, err := strconv.Atoi(strings.TrimSpace(dept))
		if err != nil {
			fmt.Println("Department id must be a number.")
			return nil
		}
		reg.DepartmentID = &id
	}
	if reg.Password, err = getPassword(os.Stdout); err != nil {
		return err
	}

	if _, err := a.manager.Register(ctx, reg); err != nil {
		fmt.Printf("Registration failed: %s\n", err.Error())
		return err
	}

	fmt.Println("Success! You can log in now.")
	return nil
}

// Logout invalidates the session. Local state is cleared even when the
// server is unreachable.
func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// WhoAmI re-fetches and prints the current user.
func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.manager.CheckStatus(ctx); err != nil {
		fmt.Printf("Status check failed: %s\n", err.Error())
		return err
	}

	st := a.manager.State()
	if st.User == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	u := st.User
	fmt.Printf("%s (%s), role %s", u.FullName, u.Email, u.Role)
	if u.DepartmentName != nil {
		fmt.Printf(", department %s", *u.DepartmentName)
	}
	fmt.Println()
	return nil
}
