package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/client"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

type env struct {
	server    string
	tokenFile string
}

func main() {
	e := env{
		server:    envOr("TUTORTRACK_URL", "http://localhost:5000"),
		tokenFile: envOr("TUTORTRACK_TOKEN_FILE", defaultTokenFile()),
	}
	if len(os.Args) < 2 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "register":
		err = e.runRegister(ctx, args)
	case "login":
		err = e.runLogin(ctx, args)
	case "me":
		err = e.runMe(ctx)
	case "list":
		err = e.runList(ctx, args)
	case "add":
		err = e.runAdd(ctx, args)
	case "edit":
		err = e.runEdit(ctx, args)
	case "pay":
		err = e.runPay(ctx, args)
	case "present":
		err = e.runPresent(ctx, args)
	case "delete":
		err = e.runDelete(ctx, args)
	case "remind":
		err = e.runRemind(ctx, args)
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [flags]

commands:
  register -u <username> -p <password> [-name <name>]
  login    -u <username> -p <password>
  me
  list     [-search <text>] [-month]
  add      -name <name> -fees <n> -paid <n> [-date YYYY-MM-DD] [-attendance <n>]
  edit     <student id> [-name <name>] [-fees <n>] [-paid <n>] [-date YYYY-MM-DD] [-attendance <n>]
  pay      <student id>
  present  <student id>
  delete   <student id>
  remind   <student name>

environment: TUTORTRACK_URL (default http://localhost:5000), TUTORTRACK_TOKEN_FILE
`, filepath.Base(os.Args[0]))
	os.Exit(2)
}

func (e env) client(authenticated bool) (*client.Client, error) {
	var opts []client.Option
	if authenticated {
		raw, err := os.ReadFile(e.tokenFile)
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("not logged in; run login first")
		}
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithToken(strings.TrimSpace(string(raw))))
	}
	return client.New(e.server, opts...)
}

func (e env) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(e.tokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(e.tokenFile, []byte(token+"\n"), 0o600)
}

func (e env) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	name := fs.String("name", "", "display name")
	_ = fs.Parse(args)

	c, err := e.client(false)
	if err != nil {
		return err
	}
	sess, err := c.Register(ctx, *user, *pass, *name)
	if err != nil {
		return err
	}
	if err := e.saveToken(sess.Token); err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", sess.User.Username, sess.User.ID)
	return nil
}

func (e env) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	_ = fs.Parse(args)

	c, err := e.client(false)
	if err != nil {
		return err
	}
	sess, err := c.Login(ctx, *user, *pass)
	if err != nil {
		return err
	}
	if err := e.saveToken(sess.Token); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", sess.User.Username)
	return nil
}

func (e env) runMe(ctx context.Context) error {
	c, err := e.client(true)
	if err != nil {
		return err
	}
	me, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("id:       %s\nusername: %s\nname:     %s\n", me.ID, me.Username, me.Name)
	return nil
}

func (e env) dashboard(ctx context.Context) (*client.Dashboard, error) {
	c, err := e.client(true)
	if err != nil {
		return nil, err
	}
	d := client.NewDashboard(c)
	return d, d.Refresh(ctx)
}

func (e env) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "filter by name substring")
	month := fs.Bool("month", false, "only payments made in the current month")
	_ = fs.Parse(args)

	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	d.Search(*search)
	if *month {
		d.CurrentMonth()
	}
	return render(os.Stdout, d.Visible(), d.Report())
}

func (e env) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "student name")
	fees := fs.Int64("fees", -1, "fees owed")
	paid := fs.Int64("paid", 0, "amount paid")
	date := fs.String("date", "", "payment date (YYYY-MM-DD), defaults to today")
	attendance := fs.Int64("attendance", 0, "initial attendance")
	_ = fs.Parse(args)

	in := students.Input{Name: *name, Paid: paid, Attendance: attendance}
	if *fees >= 0 {
		in.Fees = fees
	}
	if *date != "" {
		d, err := students.ParseDate(*date)
		if err != nil {
			return err
		}
		in.Date = &d
	}

	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	st, err := d.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("added %s (%s)\n", st.Name, st.ID)
	return nil
}

func (e env) runEdit(ctx context.Context, args []string) error {
	id, p, err := parseEdit(args)
	if err != nil {
		return err
	}
	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	st, err := d.Update(ctx, id, p)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s: paid %d of %d, pending %d\n", st.Name, st.Paid, st.Fees, st.Pending())
	return nil
}

// parseEdit accepts the student id before or after the flags. Only flags
// that were given end up in the patch.
func parseEdit(args []string) (string, students.Patch, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "student name")
	fees := fs.Int64("fees", 0, "fees owed")
	paid := fs.Int64("paid", 0, "amount paid")
	date := fs.String("date", "", "payment date (YYYY-MM-DD)")
	attendance := fs.Int64("attendance", 0, "attendance count")
	if err := fs.Parse(args); err != nil {
		return "", students.Patch{}, err
	}
	if id == "" && fs.NArg() > 0 {
		id = fs.Arg(0)
	}
	if strings.TrimSpace(id) == "" {
		return "", students.Patch{}, errors.New("usage: edit <student id> [flags]")
	}

	var p students.Patch
	var perr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			p.Name = name
		case "fees":
			p.Fees = fees
		case "paid":
			p.Paid = paid
		case "attendance":
			p.Attendance = attendance
		case "date":
			d, err := students.ParseDate(*date)
			if err != nil {
				perr = err
				return
			}
			p.Date = &d
		}
	})
	if perr != nil {
		return "", students.Patch{}, perr
	}
	if p.Name == nil && p.Fees == nil && p.Paid == nil && p.Date == nil && p.Attendance == nil {
		return "", students.Patch{}, errors.New("nothing to change; pass -name, -fees, -paid, -date or -attendance")
	}
	return id, p, nil
}

func (e env) runPay(ctx context.Context, args []string) error {
	id, err := oneArg("pay", args)
	if err != nil {
		return err
	}
	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	st, err := d.Pay(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s paid in full (%d)\n", st.Name, st.Paid)
	return nil
}

func (e env) runPresent(ctx context.Context, args []string) error {
	id, err := oneArg("present", args)
	if err != nil {
		return err
	}
	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	st, err := d.MarkPresent(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s attendance: %d\n", st.Name, st.Attendance)
	return nil
}

func (e env) runDelete(ctx context.Context, args []string) error {
	id, err := oneArg("delete", args)
	if err != nil {
		return err
	}
	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	if err := d.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Println("Student deleted successfully")
	return nil
}

func (e env) runRemind(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("student name is required")
	}
	name := strings.Join(args, " ")
	d, err := e.dashboard(ctx)
	if err != nil {
		return err
	}
	st, ok := d.Find(name)
	if !ok {
		return fmt.Errorf("no student named %q", name)
	}
	fmt.Println(client.Reminder(st))
	return nil
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("usage: %s <student id>", cmd)
	}
	return args[0], nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tutortrack-token"
	}
	return filepath.Join(dir, "tutortrack", "token")
}
