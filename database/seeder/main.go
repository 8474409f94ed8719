package main

import (
	"fmt"

	_ "github.com/lib/pq"

	"github.com/inkwell/database/seeder/seeds"
	"github.com/inkwell/metal/kernel"
	"github.com/inkwell/pkg/cli"
	"github.com/inkwell/pkg/portal"
)

func main() {
	cli.ClearScreen()

	secrets, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		panic("bootstrapping error > " + err.Error())
	}

	dbConnection := kernel.MakeDbConnection(secrets)
	logs := kernel.MakeLogs(secrets)

	defer logs.Close()
	defer dbConnection.Close()

	seeder := seeds.MakeSeeder(dbConnection, secrets)

	if err := seeder.TruncateDB(); err != nil {
		panic(err)
	}

	cli.Successln("db truncated successfully ...")

	cli.Warningln("Seeding admins ...")

	super, editor, err := seeder.SeedAdmins()
	if err != nil {
		panic(err)
	}

	cli.Magentaln("Seeding posts ...")

	posts, err := seeder.SeedPosts(super, editor)
	if err != nil {
		panic(err)
	}

	for _, post := range posts {
		cli.Grayln(fmt.Sprintf("  %s -> %s [%s]", post.Title, post.Slug, post.Status))
	}

	cli.Successln(fmt.Sprintf("Seeded %d admins and %d posts.", 2, len(posts)))
	cli.Cyanln("Both accounts use the password 'password'. Change it before going anywhere near production.")
}
