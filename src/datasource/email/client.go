// client.go
package email

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const (
	MaxFetchMessages   = 100            // cap per fetch, keeps memory bounded
	FetchBufferSize    = 10             // message channel buffer
	RecentMailDuration = 24 * time.Hour // how far back "new mail" reaches
)

// MailService is the mailbox access the dataset ingestion needs.
type MailService interface {
	Connect() error
	Disconnect()
	FetchUnreadEmails() ([]*Email, error)
}

// Email is a fetched message reduced to what the ingestion uses.
type Email struct {
	UID         uint32
	Date        time.Time
	From        string
	Subject     string
	Attachments []*Attachment
}

// Attachment holds one decoded attachment.
type Attachment struct {
	Filename string
	Content  []byte
}

// EmailClient is the IMAP implementation of MailService.
type EmailClient struct {
	server    string
	username  string
	password  string
	client    *client.Client
	mu        sync.Mutex
	connected bool
}

// NewEmailClient creates a client for an IMAP server address like
// "imap.example.com:993".
func NewEmailClient(server, username, password string) *EmailClient {
	return &EmailClient{
		server:   server,
		username: username,
		password: password,
	}
}

// Connect establishes a TLS connection and logs in, reusing a still-valid
// existing connection.
func (s *EmailClient) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		if _, err := s.client.Capability(); err == nil {
			return nil
		}
		// stale connection, reset
		s.client.Logout()
		s.client = nil
	}

	c, err := client.DialTLS(s.server, nil)
	if err != nil {
		return fmt.Errorf("connecting to mail server: %w", err)
	}

	if err := c.Login(s.username, s.password); err != nil {
		c.Logout()
		return fmt.Errorf("mail login: %w", err)
	}

	s.client = c
	s.connected = true
	return nil
}

func (s *EmailClient) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.Logout()
		s.client = nil
	}
	s.connected = false
}

// FetchUnreadEmails returns the unread messages of the last day.
func (s *EmailClient) FetchUnreadEmails() ([]*Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, fmt.Errorf("not connected to mail server")
	}

	if _, err := s.client.Select("INBOX", false); err != nil {
		return nil, fmt.Errorf("selecting inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Since = time.Now().Add(-RecentMailDuration)

	ids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("searching mail: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if len(ids) > MaxFetchMessages {
		ids = ids[:MaxFetchMessages]
	}

	return s.fetchMessages(ids)
}

func (s *EmailClient) fetchMessages(ids []uint32) ([]*Email, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchFlags,
		imap.FetchInternalDate,
		imap.FetchUid,
		section.FetchItem(),
	}

	messages := make(chan *imap.Message, FetchBufferSize)
	done := make(chan error, 1)

	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	var emails []*Email
	for msg := range messages {
		email, err := s.parseEmail(msg, section)
		if err != nil {
			log.Printf("parsing mail: %v", err)
			continue
		}
		emails = append(emails, email)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching mail bodies: %w", err)
	}

	return emails, nil
}

func (s *EmailClient) parseEmail(msg *imap.Message, section *imap.BodySectionName) (*Email, error) {
	r := msg.GetBody(section)
	if r == nil {
		return nil, fmt.Errorf("mail body is empty")
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating mail reader: %w", err)
	}

	header := mr.Header
	date, _ := header.Date() // a bad date does not block the attachment

	email := &Email{
		UID:     msg.Uid,
		Date:    date,
		From:    decodeHeader(header.Get("From")),
		Subject: decodeHeader(header.Get("Subject")),
	}

	if err := s.parseEmailParts(mr, email); err != nil {
		return nil, err
	}

	return email, nil
}

func (s *EmailClient) parseEmailParts(mr *mail.Reader, email *Email) error {
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip unparseable parts
		}

		if h, ok := p.Header.(*mail.AttachmentHeader); ok {
			if err := s.parseAttachment(h, p.Body, email); err != nil {
				log.Printf("parsing attachment: %v", err)
			}
		}
	}
	return nil
}

func (s *EmailClient) parseAttachment(h *mail.AttachmentHeader, body io.Reader, email *Email) error {
	filename, err := h.Filename()
	if err != nil || filename == "" {
		return fmt.Errorf("attachment without a filename")
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("reading attachment: %w", err)
	}

	email.Attachments = append(email.Attachments, &Attachment{
		Filename: decodeHeader(filename),
		Content:  buf.Bytes(),
	})
	return nil
}

// LatestDatasetEmail fetches unread mail and returns the newest message
// whose subject contains targetSubject and which carries at least one
// attachment. Returns nil when nothing matches.
func LatestDatasetEmail(svc MailService, targetSubject string) (*Email, error) {
	if err := svc.Connect(); err != nil {
		return nil, err
	}

	emails, err := svc.FetchUnreadEmails()
	if err != nil {
		return nil, err
	}

	var matches []*Email
	for _, e := range emails {
		if strings.Contains(e.Subject, targetSubject) && len(e.Attachments) > 0 {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Date.After(matches[j].Date)
	})
	return matches[0], nil
}

// decodeHeader decodes =?charset?encoding?...?= mail headers.
func decodeHeader(header string) string {
	decoder := mime.WordDecoder{
		CharsetReader: charsetReader,
	}

	decoded, err := decoder.DecodeHeader(header)
	if err != nil {
		return header // keep the raw header when decoding fails
	}
	return decoded
}

// charsetReader converts GBK/GB2312 headers to UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	charset = strings.ToLower(charset)
	switch charset {
	case "gbk", "gb2312":
		return transform.NewReader(input, simplifiedchinese.GBK.NewDecoder()), nil
	default:
		return input, nil
	}
}
