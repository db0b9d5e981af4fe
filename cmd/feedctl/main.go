// feedctl drives the feed from a terminal: submit posts, browse the
// collection and interact with individual records. It keeps its anonymous
// profile (client id and viewed markers) in a directory on disk, so repeated
// invocations act as the same participant.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Pargusz/izmirdestek/internal/feed"
	"github.com/Pargusz/izmirdestek/internal/identity"
	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/Pargusz/izmirdestek/pkg/config"
	"github.com/Pargusz/izmirdestek/pkg/firebase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usage = `Usage: feedctl <command> [flags]

Commands:
  post     submit a new post
  list     print the current feed
  like     toggle a like on a post
  comment  add a comment to a post
  view     count a view for a post
  delete   remove a post
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close(context.Background())

	provider := identity.NewFileProvider(cfg.ProfileDir)
	clientID, err := provider.ClientID()
	if err != nil {
		log.Fatalf("load client id: %v", err)
	}
	viewed := identity.NewFileViewedStore(cfg.ProfileDir)
	ctrl := interaction.NewController(st, viewed, nil, nil)

	switch os.Args[1] {
	case "post":
		err = runPost(ctx, ctrl, clientID, os.Args[2:])
	case "list":
		err = runList(ctx, st, os.Args[2:])
	case "like":
		err = runLike(ctx, ctrl, clientID, os.Args[2:])
	case "comment":
		err = runComment(ctx, ctrl, os.Args[2:])
	case "view":
		err = runView(ctx, ctrl, clientID, os.Args[2:])
	case "delete":
		err = runDelete(ctx, ctrl, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "firestore":
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID, cfg.FirebaseDatabaseURL)
		if err != nil {
			return nil, err
		}
		return store.NewFirestoreStore(app.Firestore), nil
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, err
		}
		return store.NewMongoStore(client.Database(cfg.MongoDB)), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func runPost(ctx context.Context, ctrl *interaction.Controller, clientID string, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	content := fs.String("content", "", "post text (required)")
	username := fs.String("username", "", "display name, anonymous when empty")
	mediaURL := fs.String("media", "", "media link to attach")
	file := fs.String("file", "", "path of a file to attach inline")
	fs.Parse(args)

	in := interaction.CreatePostInput{
		Content:  *content,
		Username: *username,
		MediaURL: *mediaURL,
		ClientID: clientID,
	}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read attachment: %w", err)
		}
		in.Attachment = &interaction.AttachmentInput{
			Data:     data,
			MimeType: http.DetectContentType(data),
			FileName: filepath.Base(*file),
		}
	}

	id, err := ctrl.CreatePost(ctx, in)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runList(ctx context.Context, st store.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("q", "", "filter posts by content or author")
	fs.Parse(args)

	sub, err := st.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	projector := feed.NewProjector()
	select {
	case snap, ok := <-sub.Snapshots():
		if !ok {
			return fmt.Errorf("subscription closed before first snapshot")
		}
		projector.Replace(snap)
	case <-ctx.Done():
		return ctx.Err()
	}

	for _, item := range projector.Filter(*query) {
		fmt.Printf("%s  %s  %s\n", item.ID, item.CreatedAt.Local().Format("2006-01-02 15:04"), item.Username)
		fmt.Printf("    %s\n", item.Content)
		if item.Media != nil {
			fmt.Printf("    [%s] %s\n", item.Media.Kind, item.Media.URL)
		}
		fmt.Printf("    %d likes, %d comments, %d views\n", len(item.Likes), len(item.Comments), item.Views)
	}
	return nil
}

func runLike(ctx context.Context, ctrl *interaction.Controller, clientID string, args []string) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	postID := fs.String("post", "", "post id (required)")
	fs.Parse(args)
	if *postID == "" {
		return fmt.Errorf("like: -post is required")
	}

	post, err := ctrl.GetPost(ctx, *postID)
	if err != nil {
		return err
	}
	liked := post.LikedBy(clientID)
	if err := ctrl.ToggleLike(ctx, *postID, clientID, liked); err != nil {
		return err
	}
	if liked {
		fmt.Println("unliked")
	} else {
		fmt.Println("liked")
	}
	return nil
}

func runComment(ctx context.Context, ctrl *interaction.Controller, args []string) error {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	postID := fs.String("post", "", "post id (required)")
	content := fs.String("content", "", "comment text (required)")
	username := fs.String("username", "", "display name, anonymous when empty")
	fs.Parse(args)
	if *postID == "" {
		return fmt.Errorf("comment: -post is required")
	}
	return ctrl.AddComment(ctx, *postID, *content, *username)
}

func runView(ctx context.Context, ctrl *interaction.Controller, clientID string, args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	postID := fs.String("post", "", "post id (required)")
	fs.Parse(args)
	if *postID == "" {
		return fmt.Errorf("view: -post is required")
	}
	ctrl.IncrementView(ctx, *postID, clientID)
	return nil
}

func runDelete(ctx context.Context, ctrl *interaction.Controller, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	postID := fs.String("post", "", "post id (required)")
	fs.Parse(args)
	if *postID == "" {
		return fmt.Errorf("delete: -post is required")
	}
	if err := ctrl.DeletePost(ctx, *postID); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}
