package discord

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"brewgraph/internal/beer"
	"brewgraph/internal/catalog"
	"brewgraph/internal/constants"
	"brewgraph/internal/graph"
	apperrors "brewgraph/pkg/errors"
)

// Handler handles Discord message processing
type Handler struct {
	svc     *beer.Service
	catalog *catalog.Store
	prefix  string
	logger  *zap.Logger
}

// NewHandler creates a new Discord message handler
func NewHandler(svc *beer.Service, catalogStore *catalog.Store, prefix string, logger *zap.Logger) *Handler {
	return &Handler{
		svc:     svc,
		catalog: catalogStore,
		prefix:  prefix,
		logger:  logger,
	}
}

// HandleMessage processes a Discord message
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, h.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(content, h.prefix))
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	profile, err := profileFromAuthor(m.Author)
	if err != nil {
		h.logger.Warn("Could not parse author id",
			zap.String("author_id", m.Author.ID),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("Processing command",
		zap.String("command", command),
		zap.Int64("user_id", profile.ID),
		zap.String("channel_id", m.ChannelID),
	)

	ctx := context.Background()

	var reply string
	switch command {
	case "help":
		reply = helpText(h.prefix)
	case "search":
		reply = h.handleSearch(ctx, profile, args)
	case "rate":
		reply = h.handleRate(ctx, profile, beer.TargetBeer, args)
	case "ratebrewery":
		reply = h.handleRate(ctx, profile, beer.TargetBrewery, args)
	case "ratestyle":
		reply = h.handleRate(ctx, profile, beer.TargetStyle, args)
	case "recommend":
		reply = h.handleRecommend(ctx, profile)
	case "top":
		reply = h.handleTop(ctx, profile, args)
	case "comment":
		reply = h.handleComment(ctx, profile, m.ID, args)
	case "reply":
		reply = h.handleReply(ctx, profile, m.ID, args)
	default:
		return
	}

	if reply == "" {
		return
	}
	reply = truncate(reply, constants.DiscordMaxMessageLength)
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		h.logger.Error("Failed to send reply", zap.Error(err))
	}
}

func (h *Handler) handleSearch(ctx context.Context, profile graph.User, args []string) string {
	if len(args) == 0 {
		return "Usage: " + h.prefix + "search <name>"
	}

	query := strings.Join(args, " ")
	beers, err := h.catalog.Search(query, constants.DefaultSearchLimit)
	if err != nil {
		h.logger.Error("Catalog search failed", zap.Error(err))
		return "Something went wrong searching the catalog."
	}
	if len(beers) == 0 {
		return "No beer matches \"" + query + "\"."
	}

	var b strings.Builder
	for _, found := range beers {
		liked, err := h.svc.GetRating(ctx, profile.ID, found.ID)
		if err != nil {
			h.logger.Error("Failed to fetch rating", zap.Error(err))
		}
		b.WriteString(formatBeer(found, liked))
		b.WriteString("\n")
	}
	b.WriteString("Rate one with " + h.prefix + "rate <id> <1-5>")
	return b.String()
}

func (h *Handler) handleRate(ctx context.Context, profile graph.User, target beer.TargetType, args []string) string {
	if len(args) != 2 {
		return "Usage: " + h.prefix + "rate <id> <1-5>"
	}

	rank, err := strconv.Atoi(args[1])
	if err != nil {
		return "The rank must be a number between 1 and 5."
	}

	err = h.svc.RecordRating(ctx, profile, args[0], target, rank, time.Now())
	switch {
	case err == nil:
		return "Recorded " + stars(rank) + " for " + args[0] + "."
	case apperrors.IsValidation(err):
		return "The rank must be a number between 1 and 5."
	case apperrors.IsNotFound(err):
		return "I don't know any " + string(target) + " with id " + args[0] + "."
	default:
		h.logger.Error("Failed to record rating", zap.Error(err))
		return "Something went wrong recording your rating."
	}
}

func (h *Handler) handleRecommend(ctx context.Context, profile graph.User) string {
	suggestions, err := h.svc.Recommend(ctx, profile.ID)
	if err != nil {
		h.logger.Error("Recommendation failed", zap.Error(err))
		return "Something went wrong computing recommendations."
	}
	if len(suggestions) == 0 {
		return "You haven't rated enough beers yet for me to recommend anything."
	}

	var b strings.Builder
	b.WriteString("Based on what you and your peers like, you should try:\n")
	for _, s := range suggestions {
		b.WriteString("\t" + s.Name + " (" + strconv.Itoa(s.Score) + ")\n")
	}
	return b.String()
}

func (h *Handler) handleTop(ctx context.Context, profile graph.User, args []string) string {
	if len(args) == 0 {
		return "Usage: " + h.prefix + "top breweries|styles [me]"
	}

	scope := graph.ScopeGlobal
	if len(args) > 1 && strings.EqualFold(args[1], "me") {
		scope = graph.ScopeUser
	}

	var (
		entities []graph.TopEntity
		err      error
		title    string
	)
	switch strings.ToLower(args[0]) {
	case "breweries":
		entities, err = h.svc.ListTopBreweries(ctx, scope, profile.ID)
		title = "Top breweries"
	case "styles":
		entities, err = h.svc.ListTopStyles(ctx, scope, profile.ID)
		title = "Top styles"
	default:
		return "Usage: " + h.prefix + "top breweries|styles [me]"
	}
	if err != nil {
		h.logger.Error("Toplist failed", zap.Error(err))
		return "Something went wrong building the toplist."
	}
	if len(entities) == 0 {
		return "No likes recorded yet."
	}

	return formatToplist(title, entities)
}

func (h *Handler) handleComment(ctx context.Context, profile graph.User, messageID string, args []string) string {
	if len(args) < 2 {
		return "Usage: " + h.prefix + "comment <beer-id> <text>"
	}

	text := strings.Join(args[1:], " ")
	_, err := h.svc.CommentOnBeer(ctx, profile, args[0], messageID, text, time.Now())
	switch {
	case err == nil:
		return "Comment recorded."
	case apperrors.IsNotFound(err):
		return "I don't know any beer with id " + args[0] + "."
	default:
		h.logger.Error("Failed to record comment", zap.Error(err))
		return "Something went wrong recording your comment."
	}
}

func (h *Handler) handleReply(ctx context.Context, profile graph.User, messageID string, args []string) string {
	if len(args) < 2 {
		return "Usage: " + h.prefix + "reply <comment-id> <text>"
	}

	text := strings.Join(args[1:], " ")
	_, err := h.svc.ReplyToComment(ctx, profile, args[0], messageID, text, time.Now())
	switch {
	case err == nil:
		return "Reply recorded."
	case apperrors.IsNotFound(err):
		return "I don't know any comment with id " + args[0] + "."
	default:
		h.logger.Error("Failed to record reply", zap.Error(err))
		return "Something went wrong recording your reply."
	}
}

func profileFromAuthor(author *discordgo.User) (graph.User, error) {
	id, err := strconv.ParseInt(author.ID, 10, 64)
	if err != nil {
		return graph.User{}, err
	}
	firstName := author.GlobalName
	if firstName == "" {
		firstName = author.Username
	}
	return graph.User{
		ID:        id,
		IsBot:     author.Bot,
		FirstName: firstName,
		Username:  author.Username,
	}, nil
}
